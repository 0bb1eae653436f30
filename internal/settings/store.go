// Package settings persists the platform's user record (db/user.json).
//
// Only the active catalog URL is interpreted here. Every other key in the
// record is carried through a rewrite untouched.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"appstore/internal/constants"
	"appstore/internal/logger"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/moby/sys/atomicwriter"
)

// ErrInvalidArgument is returned by Set for an empty or blank URL.
var ErrInvalidArgument = errors.New("invalid argument")

// RepoConfig is the interpreted view of the persisted record.
type RepoConfig struct {
	CatalogURL string
}

// Store reads and writes the active catalog URL.
type Store interface {
	Get() RepoConfig
	Set(url string) error
}

// FileStore is a Store backed by a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the JSON record at path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the persisted record. A missing or unparsable file reads as an empty record.
func (s *FileStore) Get() RepoConfig {
	fields, err := s.read()
	if err != nil {
		return RepoConfig{}
	}
	return RepoConfig{CatalogURL: stringField(fields, constants.AppRepoKey)}
}

// Set rewrites the whole record with the catalog URL replaced.
// The new content is written to a temporary file and renamed into place.
func (s *FileStore) Set(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: repository url is empty", ErrInvalidArgument)
	}

	fields, err := s.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		// An unreadable record is treated as unset, so it is replaced rather than merged.
		logger.Warn(context.Background(), "Replacing unreadable user record '{{_File_}}%s{{|-|}}': %v", s.path, err)
	}
	if fields == nil {
		fields = map[string]jsontext.Value{}
	}

	value, err := json.Marshal(url)
	if err != nil {
		return fmt.Errorf("encode %s: %w", constants.AppRepoKey, err)
	}
	fields[constants.AppRepoKey] = jsontext.Value(value)

	data, err := json.Marshal(fields, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	formatted := jsontext.Value(data)
	if err := formatted.Indent("", "  "); err != nil {
		return fmt.Errorf("format user record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}
	if err := atomicwriter.WriteFile(s.path, append(formatted, '\n'), 0644); err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	return nil
}

// read decodes the record into raw fields so unknown keys survive a rewrite.
func (s *FileStore) read() (map[string]jsontext.Value, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	fields := map[string]jsontext.Value{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func stringField(fields map[string]jsontext.Value, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	URL    string
	Writes int
}

func (m *MemoryStore) Get() RepoConfig {
	return RepoConfig{CatalogURL: m.URL}
}

func (m *MemoryStore) Set(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: repository url is empty", ErrInvalidArgument)
	}
	m.URL = url
	m.Writes++
	return nil
}
