// Package gitrepo implements the catalog mirror's version-control
// operations on top of go-git.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"appstore/internal/apprepo"
	"appstore/internal/constants"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo drives go-git for a mirror directory.
type Repo struct {
	// Remote is the remote name used for every operation.
	Remote string
	// Depth limits clone and fetch history. Zero fetches full history.
	Depth int
	// GlobalConfigPath is the git config file holding safe.directory entries.
	GlobalConfigPath string
}

// New returns a Repo with shallow clones and the user's global git config.
func New() *Repo {
	return &Repo{
		Remote:           constants.DefaultRemoteName,
		Depth:            constants.CloneDepth,
		GlobalConfigPath: GlobalConfigPath(),
	}
}

var _ apprepo.Git = (*Repo)(nil)

// Clone performs a single-branch clone of url into path.
func (r *Repo) Clone(ctx context.Context, url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	auth, err := authForURL(url)
	if err != nil {
		return err
	}

	_, err = git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:          url,
		Auth:         auth,
		RemoteName:   r.Remote,
		Depth:        r.Depth,
		SingleBranch: true,
	})
	if err != nil {
		return fmt.Errorf("clone git repo: %w", err)
	}
	return nil
}

// Pull fast-forwards the checked out branch from the remote.
func (r *Repo) Pull(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}

	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	auth, err := authForRepo(repo, r.Remote)
	if err != nil {
		return err
	}

	err = w.PullContext(ctx, &git.PullOptions{
		RemoteName:    r.Remote,
		ReferenceName: head.Name(),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull %s: %w", head.Name().Short(), err)
	}
	return nil
}

// Fetch updates remote-tracking refs using the configured refspecs.
func (r *Repo) Fetch(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open git repo: %w", err)
	}

	auth, err := authForRepo(repo, r.Remote)
	if err != nil {
		return err
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: r.Remote,
		Depth:      r.Depth,
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch %s: %w", r.Remote, err)
	}
	return nil
}

// Checkout switches the worktree to branch. A local branch is created from
// the remote-tracking ref when it does not exist yet.
func (r *Repo) Checkout(ctx context.Context, path, branch string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open git repo: %w", err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(r.Remote, branch), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("%w: %s not found on %s", apprepo.ErrUnknownBranch, branch, r.Remote)
	}
	if err != nil {
		return fmt.Errorf("resolve %s/%s: %w", r.Remote, branch, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	local := plumbing.NewBranchReferenceName(branch)
	_, err = repo.Reference(local, true)
	create := errors.Is(err, plumbing.ErrReferenceNotFound)
	if err != nil && !create {
		return fmt.Errorf("resolve %s: %w", local, err)
	}

	opts := &git.CheckoutOptions{Branch: local, Create: create}
	if create {
		opts.Hash = remoteRef.Hash()
	}
	if err := w.Checkout(opts); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}

	if create {
		err := repo.CreateBranch(&config.Branch{Name: branch, Remote: r.Remote, Merge: local})
		if err != nil && !errors.Is(err, git.ErrBranchExists) {
			return fmt.Errorf("track %s/%s: %w", r.Remote, branch, err)
		}
	}
	return nil
}

// FetchRefSpecs returns the fetch refspecs of the remote.
func (r *Repo) FetchRefSpecs(path string) ([]string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open git repo: %w", err)
	}
	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read git config: %w", err)
	}
	remote, ok := cfg.Remotes[r.Remote]
	if !ok {
		return nil, fmt.Errorf("remote %s is not configured", r.Remote)
	}

	specs := make([]string, 0, len(remote.Fetch))
	for _, spec := range remote.Fetch {
		specs = append(specs, spec.String())
	}
	return specs, nil
}

// SetFetchRefSpecs replaces the fetch refspecs of the remote.
func (r *Repo) SetFetchRefSpecs(path string, specs []string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open git repo: %w", err)
	}
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read git config: %w", err)
	}
	remote, ok := cfg.Remotes[r.Remote]
	if !ok {
		return fmt.Errorf("remote %s is not configured", r.Remote)
	}

	refSpecs := make([]config.RefSpec, 0, len(specs))
	for _, s := range specs {
		spec := config.RefSpec(s)
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("invalid refspec %q: %w", s, err)
		}
		refSpecs = append(refSpecs, spec)
	}
	remote.Fetch = refSpecs

	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("write git config: %w", err)
	}
	return nil
}
