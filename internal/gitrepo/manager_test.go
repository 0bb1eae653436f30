package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"appstore/internal/apprepo"
	"appstore/internal/settings"

	"github.com/go-git/go-git/v5/plumbing"
)

type recordingOwner struct{ paths []string }

func (o *recordingOwner) TakeOwnership(_ context.Context, path string) {
	o.paths = append(o.paths, path)
}

// Drives the full checkout sequence against a local upstream.
func TestManagerCheckoutEndToEnd(t *testing.T) {
	up := newUpstream(t)
	staging := up.branch("staging")

	root := t.TempDir()
	store := settings.NewFileStore(filepath.Join(root, "db", "user.json"))
	owner := &recordingOwner{}
	m := apprepo.New(store, filepath.Join(root, "repos"), testRepo(t), owner, 10*time.Second)
	ctx := context.Background()

	descriptor := "file://" + up.dir + "#staging"
	if err := m.Checkout(ctx, descriptor); err != nil {
		t.Fatalf("Checkout(%q) failed: %v", descriptor, err)
	}

	wantURL := "file://" + up.dir
	if got := store.Get().CatalogURL; got != wantURL {
		t.Errorf("Expected persisted URL %q, got %q", wantURL, got)
	}

	mirror := m.ActivePath()
	if filepath.Base(mirror) != apprepo.ComputeID(wantURL) {
		t.Errorf("Mirror %s is not named by the catalog id", mirror)
	}
	head := headOf(t, mirror)
	if head.Name() != plumbing.NewBranchReferenceName("staging") || head.Hash() != staging {
		t.Errorf("Expected staging at %s, got %s at %s", staging, head.Name(), head.Hash())
	}
	if _, err := os.Stat(filepath.Join(mirror, "staging.txt")); err != nil {
		t.Errorf("Expected staging content in worktree: %v", err)
	}
	// clone, then the update that follows the branch switch
	if len(owner.paths) != 2 {
		t.Errorf("Expected ownership taken twice, got %v", owner.paths)
	}
}

func TestManagerRebuildsCorruptMirror(t *testing.T) {
	up := newUpstream(t)
	root := t.TempDir()
	store := settings.NewFileStore(filepath.Join(root, "db", "user.json"))
	if err := store.Set("file://" + up.dir); err != nil {
		t.Fatal(err)
	}
	m := apprepo.New(store, filepath.Join(root, "repos"), testRepo(t), &recordingOwner{}, 10*time.Second)
	ctx := context.Background()

	mirror := m.ActivePath()
	if err := os.MkdirAll(mirror, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mirror, "leftover"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := m.Update(ctx); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mirror, "leftover")); !os.IsNotExist(err) {
		t.Errorf("Expected corrupt mirror to be removed before cloning, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(mirror, "README.md")); err != nil {
		t.Errorf("Expected fresh clone: %v", err)
	}
}

// countingRepo counts fetch-refspec rewrites on top of a real Repo.
type countingRepo struct {
	*Repo
	rewrites int
}

func (c *countingRepo) SetFetchRefSpecs(path string, specs []string) error {
	c.rewrites++
	return c.Repo.SetFetchRefSpecs(path, specs)
}

func TestManagerBranchWidensFreshCloneOnce(t *testing.T) {
	up := newUpstream(t)
	up.branch("staging")
	up.branch("beta")

	root := t.TempDir()
	store := settings.NewFileStore(filepath.Join(root, "db", "user.json"))
	if err := store.Set("file://" + up.dir); err != nil {
		t.Fatal(err)
	}
	git := &countingRepo{Repo: testRepo(t)}
	m := apprepo.New(store, filepath.Join(root, "repos"), git, &recordingOwner{}, 10*time.Second)
	ctx := context.Background()

	if err := m.Update(ctx); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	mirror := m.ActivePath()
	before, err := git.FetchRefSpecs(mirror)
	if err != nil {
		t.Fatal(err)
	}
	if _, changed := apprepo.BroadenRefSpecs(before, "origin"); !changed {
		t.Fatalf("Expected a fresh clone to fetch a single branch, got %v", before)
	}

	if err := m.Branch(ctx, "staging"); err != nil {
		t.Fatalf("Branch(staging) failed: %v", err)
	}
	if err := m.Branch(ctx, "beta"); err != nil {
		t.Fatalf("Branch(beta) failed: %v", err)
	}

	if git.rewrites != 1 {
		t.Errorf("Expected the fetch config to be rewritten once, got %d", git.rewrites)
	}
	after, err := git.FetchRefSpecs(mirror)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0] != "+refs/heads/*:refs/remotes/origin/*" {
		t.Errorf("Unexpected fetch config after widening: %v", after)
	}
	if head := headOf(t, mirror); head.Name() != plumbing.NewBranchReferenceName("beta") {
		t.Errorf("Expected beta checked out, got %s", head.Name())
	}
}
