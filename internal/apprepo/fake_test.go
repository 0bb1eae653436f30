package apprepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"appstore/internal/settings"
)

// fakeGit records calls and simulates a mirror on disk.
type fakeGit struct {
	log *[]string

	probe    ProbeResult
	probeErr error

	cloneErr    error
	pullErr     error
	fetchErr    error
	checkoutErr error
	block       bool // network calls wait for ctx to expire

	specs    []string
	setSpecs int
	trusted  map[string]int
	branch   string
}

func newFakeGit(log *[]string) *fakeGit {
	return &fakeGit{
		log:     log,
		// What a go-git single-branch clone writes.
		specs:   []string{"+HEAD:refs/remotes/origin/HEAD"},
		trusted: map[string]int{},
	}
}

func (f *fakeGit) record(format string, args ...any) {
	*f.log = append(*f.log, fmt.Sprintf(format, args...))
}

func (f *fakeGit) wait(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeGit) Trust(ctx context.Context, path string) error {
	f.trusted[path]++
	return nil
}

func (f *fakeGit) Probe(ctx context.Context, path string) (ProbeResult, error) {
	f.record("probe")
	return f.probe, f.probeErr
}

func (f *fakeGit) Clone(ctx context.Context, url, path string) error {
	f.record("clone %s", url)
	if err := f.wait(ctx); err != nil {
		return err
	}
	if f.cloneErr != nil {
		return f.cloneErr
	}
	f.probe = ProbeOK
	return os.MkdirAll(filepath.Join(path, ".git"), 0755)
}

func (f *fakeGit) Pull(ctx context.Context, path string) error {
	f.record("pull")
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.pullErr
}

func (f *fakeGit) Fetch(ctx context.Context, path string) error {
	f.record("fetch")
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.fetchErr
}

func (f *fakeGit) Checkout(ctx context.Context, path, branch string) error {
	f.record("checkout %s", branch)
	if f.checkoutErr != nil {
		return f.checkoutErr
	}
	f.branch = branch
	return nil
}

func (f *fakeGit) FetchRefSpecs(path string) ([]string, error) {
	return f.specs, nil
}

func (f *fakeGit) SetFetchRefSpecs(path string, specs []string) error {
	f.record("set-refspecs")
	f.setSpecs++
	f.specs = specs
	return nil
}

type fakeOwner struct {
	log *[]string
}

func (o fakeOwner) TakeOwnership(ctx context.Context, path string) {
	*o.log = append(*o.log, "chown")
}

// loggingStore wraps a MemoryStore and records writes in the shared call log.
type loggingStore struct {
	settings.MemoryStore
	log *[]string
}

func (s *loggingStore) Set(url string) error {
	if err := s.MemoryStore.Set(url); err != nil {
		return err
	}
	*s.log = append(*s.log, "set "+url)
	return nil
}
