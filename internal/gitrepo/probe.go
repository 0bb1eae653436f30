package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"appstore/internal/apprepo"
	"appstore/internal/constants"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Probe classifies the mirror at path.
//
// Corrupt requires evidence that local metadata is missing or unreadable:
// no .git directory, a repository that cannot be opened, or a HEAD whose
// reference or objects are gone. Permission problems and every other error
// are reported as ProbeFailed.
func (r *Repo) Probe(ctx context.Context, path string) (apprepo.ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return apprepo.ProbeFailed, err
	}

	info, err := os.Stat(filepath.Join(path, constants.GitDirName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return apprepo.ProbeCorrupt, fmt.Errorf("%s has no git metadata", path)
	case err != nil:
		return apprepo.ProbeFailed, err
	case !info.IsDir():
		return apprepo.ProbeCorrupt, fmt.Errorf("%s is not a directory", constants.GitDirName)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return classify(err, apprepo.ProbeCorrupt), fmt.Errorf("open git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return classify(err, apprepo.ProbeCorrupt), fmt.Errorf("read HEAD: %w", err)
	}
	if _, err := repo.CommitObject(head.Hash()); err != nil {
		return classify(err, apprepo.ProbeCorrupt), fmt.Errorf("read HEAD commit: %w", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return classify(err, apprepo.ProbeFailed), fmt.Errorf("open worktree: %w", err)
	}
	if _, err := w.Status(); err != nil {
		return classify(err, apprepo.ProbeFailed), fmt.Errorf("status: %w", err)
	}

	return apprepo.ProbeOK, nil
}

// classify maps an error to a probe result. Missing metadata is corruption,
// permission errors never are, anything else gets fallback.
func classify(err error, fallback apprepo.ProbeResult) apprepo.ProbeResult {
	switch {
	case errors.Is(err, os.ErrPermission):
		return apprepo.ProbeFailed
	case errors.Is(err, git.ErrRepositoryNotExists),
		errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, plumbing.ErrObjectNotFound),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, io.ErrUnexpectedEOF):
		return apprepo.ProbeCorrupt
	}
	return fallback
}
