package apprepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"appstore/internal/constants"
	"appstore/internal/paths"

	"gopkg.in/yaml.v3"
)

// App is the subset of an app manifest shown when listing a catalog.
type App struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ListApps reads the manifest of every app directory directly under dir.
// Directories without a manifest are skipped. Apps are sorted by id.
func ListApps(dir string) ([]App, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var apps []App
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		manifest := filepath.Join(dir, entry.Name(), constants.AppManifestFileName)
		data, err := os.ReadFile(manifest)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", manifest, err)
		}

		var app App
		if err := yaml.Unmarshal(data, &app); err != nil {
			return nil, fmt.Errorf("parse %s: %w", manifest, err)
		}
		if app.ID == "" {
			app.ID = entry.Name()
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

// Apps lists the apps of the active mirror.
func (m *Manager) Apps() ([]App, error) {
	path := m.ActivePath()
	if !paths.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrNoMirror, path)
	}
	return ListApps(path)
}
