package settings

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"appstore/internal/logger"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestGetMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "db", "user.json"))
	if got := s.Get(); got != (RepoConfig{}) {
		t.Errorf("Expected empty record, got %+v", got)
	}
}

func TestGetInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := NewFileStore(path).Get(); got != (RepoConfig{}) {
		t.Errorf("Expected parse failure to read as unset, got %+v", got)
	}
}

func TestGetNonStringField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte(`{"appRepo": 42}`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := NewFileStore(path).Get(); got.CatalogURL != "" {
		t.Errorf("Expected non-string appRepo to read as unset, got %q", got.CatalogURL)
	}
}

func TestSetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "user.json")
	s := NewFileStore(path)

	url := "https://github.com/owner/apps.git"
	if err := s.Set(url); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get().CatalogURL; got != url {
		t.Errorf("Expected %q, got %q", url, got)
	}

	// A second process sees the same value.
	if got := NewFileStore(path).Get().CatalogURL; got != url {
		t.Errorf("Expected fresh store to read %q, got %q", url, got)
	}
}

func TestSetNullRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte("null"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if got := s.Get(); got != (RepoConfig{}) {
		t.Errorf("Expected null record to read as unset, got %+v", got)
	}

	url := "https://example.com/apps.git"
	if err := s.Set(url); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get().CatalogURL; got != url {
		t.Errorf("Expected %q, got %q", url, got)
	}
}

func TestSetWarnsBeforeReplacingUnreadableRecord(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(logger.NewLogger(logger.Options{Console: &buf}))
	t.Cleanup(func() { slog.SetDefault(old) })

	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte(`{"name":"Umbrel",`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewFileStore(path).Set("https://example.com/apps.git"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Replacing unreadable user record") || !strings.Contains(buf.String(), path) {
		t.Errorf("Expected a warning naming %s, got:\n%s", path, buf.String())
	}

	// A missing file is the normal first write and stays quiet.
	buf.Reset()
	if err := NewFileStore(filepath.Join(t.TempDir(), "user.json")).Set("https://example.com/apps.git"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no log output for a new record, got:\n%s", buf.String())
	}
}

func TestSetPreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	original := `{"name":"Umbrel","password":"hash","installedApps":["bitcoin","lightning"],"settings":{"tor":true},"appRepo":"https://old.example/apps.git"}`
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewFileStore(path).Set("https://github.com/owner/apps.git"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("rewritten record is not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(original), &want); err != nil {
		t.Fatal(err)
	}
	want["appRepo"] = "https://github.com/owner/apps.git"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRejectsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	s := NewFileStore(path)
	for _, url := range []string{"", "   ", "\t\n"} {
		if err := s.Set(url); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Set(%q) = %v; want ErrInvalidArgument", url, err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file to be written, stat err = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	m := &MemoryStore{}
	if err := m.Set(" "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if err := m.Set("https://x/y.git"); err != nil {
		t.Fatal(err)
	}
	if m.Get().CatalogURL != "https://x/y.git" || m.Writes != 1 {
		t.Errorf("Unexpected memory store state: %+v", m)
	}
}
