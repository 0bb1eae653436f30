package apprepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"appstore/internal/constants"
	"appstore/internal/logger"
	"appstore/internal/paths"
	"appstore/internal/settings"
)

// Manager owns the lifecycle of the active catalog mirror.
type Manager struct {
	Resolver

	git     Git
	owner   Owner
	timeout time.Duration
}

// New returns a Manager. A non-positive timeout uses the default bound.
func New(store settings.Store, reposDir string, git Git, owner Owner, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = constants.DefaultSyncTimeout
	}
	return &Manager{
		Resolver: Resolver{Store: store, ReposDir: reposDir},
		git:      git,
		owner:    owner,
		timeout:  timeout,
	}
}

// ActivePath returns the mirror directory of the active catalog.
func (m *Manager) ActivePath() string {
	return m.Path(m.ID())
}

// Set persists url as the active catalog.
func (m *Manager) Set(url string) error {
	return m.Store.Set(url)
}

// Update brings the active mirror up to date, cloning it when absent and
// rebuilding it when its local metadata is corrupt.
func (m *Manager) Update(ctx context.Context) error {
	url := m.ActiveURL()
	path := m.ActivePath()

	if err := m.git.Trust(ctx, path); err != nil {
		return fmt.Errorf("trust %s: %w", path, err)
	}

	if paths.Exists(path) {
		result, err := m.git.Probe(ctx, path)
		switch result {
		case ProbeCorrupt:
			logger.Warn(ctx, "Local mirror '{{_Folder_}}%s{{|-|}}' is corrupt, removing it.", path)
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("remove corrupt mirror %s: %w", path, err)
			}
		case ProbeFailed:
			logger.Warn(ctx, "Could not read status of '{{_Folder_}}%s{{|-|}}': %v", path, err)
		}
	}

	if paths.Exists(path) {
		logger.Notice(ctx, "Updating '{{_Url_}}%s{{|-|}}' in '{{_Folder_}}%s{{|-|}}'", url, path)
		if err := m.bounded(ctx, "pull", url, func(ctx context.Context) error {
			return m.git.Pull(ctx, path)
		}); err != nil {
			return err
		}
	} else {
		logger.Notice(ctx, "Cloning '{{_Url_}}%s{{|-|}}' into '{{_Folder_}}%s{{|-|}}'", url, path)
		if err := m.bounded(ctx, "clone", url, func(ctx context.Context) error {
			return m.git.Clone(ctx, url, path)
		}); err != nil {
			return err
		}
	}

	m.owner.TakeOwnership(ctx, path)
	return nil
}

// Branch switches the active mirror to branch and fast-forwards it.
// A mirror that fetches a single branch is first widened to fetch every branch.
func (m *Manager) Branch(ctx context.Context, branch string) error {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return fmt.Errorf("%w: branch name is empty", ErrInvalidArgument)
	}

	url := m.ActiveURL()
	path := m.ActivePath()
	if !paths.Exists(path) {
		return fmt.Errorf("%w: %s", ErrNoMirror, path)
	}

	specs, err := m.git.FetchRefSpecs(path)
	if err != nil {
		return fmt.Errorf("read fetch config of %s: %w", path, err)
	}
	if widened, changed := BroadenRefSpecs(specs, constants.DefaultRemoteName); changed {
		logger.Info(ctx, "Tracking all remote branches in '{{_Folder_}}%s{{|-|}}'", path)
		if err := m.git.SetFetchRefSpecs(path, widened); err != nil {
			return fmt.Errorf("write fetch config of %s: %w", path, err)
		}
	}

	if err := m.bounded(ctx, "fetch", url, func(ctx context.Context) error {
		return m.git.Fetch(ctx, path)
	}); err != nil {
		return err
	}

	logger.Notice(ctx, "Checking out branch '{{_Branch_}}%s{{|-|}}'", branch)
	if err := m.git.Checkout(ctx, path, branch); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}

	return m.Update(ctx)
}

// Checkout retargets the catalog from a descriptor: set, update, then branch
// when the descriptor names one. A failing step stops the sequence and the
// URL already persisted is kept.
func (m *Manager) Checkout(ctx context.Context, descriptor string) error {
	d, err := ParseDescriptor(descriptor)
	if err != nil {
		return err
	}
	if err := m.Set(d.URL); err != nil {
		return err
	}
	if err := m.Update(ctx); err != nil {
		return err
	}
	if d.Branch != "" {
		return m.Branch(ctx, d.Branch)
	}
	return nil
}

// bounded runs a network-facing operation under the manager's timeout.
func (m *Manager) bounded(ctx context.Context, op, url string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s %s after %s: %w", op, url, m.timeout, ErrTimeout)
	}
	if errors.Is(err, ErrUnknownBranch) || errors.Is(err, ErrNetwork) {
		return fmt.Errorf("%s %s: %w", op, url, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, url, ErrNetwork, err)
}

// BroadenRefSpecs rewrites fetch refspecs that track a single branch so that
// every branch of remote is fetched. Specs already fetching all branches are
// returned unchanged with changed == false.
func BroadenRefSpecs(specs []string, remote string) (widened []string, changed bool) {
	const allHeads = "refs/heads/*"
	for _, spec := range specs {
		src, _, _ := strings.Cut(strings.TrimPrefix(spec, "+"), ":")
		if src == allHeads {
			return specs, false
		}
	}

	wildcard := fmt.Sprintf("+%s:refs/remotes/%s/*", allHeads, remote)
	replaced := false
	for _, spec := range specs {
		src, _, _ := strings.Cut(strings.TrimPrefix(spec, "+"), ":")
		if strings.HasPrefix(src, "refs/heads/") || src == "HEAD" {
			if !replaced {
				widened = append(widened, wildcard)
				replaced = true
			}
			continue
		}
		widened = append(widened, spec)
	}
	if !replaced {
		widened = append(widened, wildcard)
	}
	return widened, true
}
