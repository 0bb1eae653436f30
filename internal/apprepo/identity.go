package apprepo

import (
	"path/filepath"
	"strings"

	"appstore/internal/constants"
	"appstore/internal/settings"
)

// DefaultURL is the catalog used while no URL has been persisted.
const DefaultURL = constants.DefaultRepoURL

// ComputeID maps a catalog URL to its mirror directory name. Every character
// outside [A-Za-z0-9] becomes '-'. Distinct URLs differing only in
// punctuation share an id.
func ComputeID(url string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '-'
	}, url)
}

// Resolver derives the active catalog and its mirror location.
type Resolver struct {
	Store    settings.Store
	ReposDir string
}

// ActiveURL returns the persisted catalog URL, or DefaultURL when none is set.
func (r Resolver) ActiveURL() string {
	if url := strings.TrimSpace(r.Store.Get().CatalogURL); url != "" {
		return url
	}
	return DefaultURL
}

// ID returns the identifier of the active catalog.
func (r Resolver) ID() string {
	return ComputeID(r.ActiveURL())
}

// Path returns the mirror directory for id.
func (r Resolver) Path(id string) string {
	return filepath.Join(r.ReposDir, id)
}
