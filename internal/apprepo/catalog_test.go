package apprepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, app, body string) {
	t.Helper()
	appDir := filepath.Join(dir, app)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	if body == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(appDir, "umbrel-app.yml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListApps(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "nextcloud", "manifestVersion: 1\nid: nextcloud\nname: Nextcloud\nversion: \"27.1.2\"\n")
	writeManifest(t, dir, "bitcoin", "id: bitcoin\nname: Bitcoin Node\nversion: 26.0\n")
	writeManifest(t, dir, "no-id", "name: Unnamed\nversion: \"1\"\n")
	writeManifest(t, dir, "empty-dir", "")
	writeManifest(t, dir, ".github", "id: hidden\n")

	apps, err := ListApps(dir)
	if err != nil {
		t.Fatalf("ListApps failed: %v", err)
	}
	want := []App{
		{ID: "bitcoin", Name: "Bitcoin Node", Version: "26.0"},
		{ID: "nextcloud", Name: "Nextcloud", Version: "27.1.2"},
		{ID: "no-id", Name: "Unnamed", Version: "1"},
	}
	if diff := cmp.Diff(want, apps); diff != "" {
		t.Errorf("apps mismatch (-want +got):\n%s", diff)
	}
}

func TestListAppsBadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "broken", "id: [unterminated\n")

	if _, err := ListApps(dir); err == nil {
		t.Fatal("Expected a parse error")
	}
}

func TestManagerAppsWithoutMirror(t *testing.T) {
	h := newHarness(t)
	if _, err := h.m.Apps(); !errors.Is(err, ErrNoMirror) {
		t.Fatalf("Expected ErrNoMirror, got %v", err)
	}
}
