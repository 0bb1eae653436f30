package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"appstore/internal/constants"
	"appstore/internal/version"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ConfigHomeOverride allows overriding the config home for tests.
	ConfigHomeOverride string

	// rootDir is the platform root resolved from the app config.
	rootDir string
)

// GetConfigFilePath returns the absolute path to the appstore.toml file.
// It places it in a subdirectory named after the application (e.g., ~/.config/appstore/appstore.toml).
func GetConfigFilePath() string {
	appName := strings.ToLower(version.ApplicationName)
	if ConfigHomeOverride != "" {
		return filepath.Join(ConfigHomeOverride, appName, constants.AppConfigFileName)
	}
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName, constants.AppConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, appName, constants.AppConfigFileName)
}

// SetRootDir sets the platform root every other path is derived from.
func SetRootDir(dir string) {
	if dir != "" {
		dir, _ = filepath.Abs(dir)
	}
	rootDir = dir
}

// GetRootDir returns the platform root. An unset root falls back to the working directory.
func GetRootDir() string {
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return rootDir
}

// GetReposDir returns the directory holding every catalog mirror.
func GetReposDir() string {
	return filepath.Join(GetRootDir(), constants.ReposDirName)
}

// GetUserFilePath returns the path of the persisted user record (db/user.json).
func GetUserFilePath() string {
	return filepath.Join(GetRootDir(), constants.DBDirName, constants.UserFileName)
}

// GetMirrorVersion describes the checked out revision of the mirror at dir.
// It returns the highest tag pointing at HEAD when there is one, otherwise "branch commit abc1234".
func GetMirrorVersion(dir string) string {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return "Unknown Version"
	}

	head, err := r.Head()
	if err != nil {
		return "Unknown Version"
	}

	if tag := headTag(r, head.Hash()); tag != "" {
		return tag
	}

	branchName := "HEAD"
	if head.Name().IsBranch() {
		branchName = head.Name().Short()
	}

	hash := head.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}

	return fmt.Sprintf("%s commit %s", branchName, hash)
}

// headTag returns the tag at commit, preferring the highest semantic version.
func headTag(r *git.Repository, commit plumbing.Hash) string {
	tags, err := r.Tags()
	if err != nil {
		return ""
	}

	var names []string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := r.TagObject(target); err == nil {
			target = obj.Target
		}
		if target == commit {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if len(names) == 0 {
		return ""
	}

	best := names[0]
	bestVer, _ := semver.NewVersion(best)
	for _, name := range names[1:] {
		v, err := semver.NewVersion(name)
		switch {
		case err != nil:
			if bestVer == nil && name > best {
				best = name
			}
		case bestVer == nil || v.GreaterThan(bestVer):
			best, bestVer = name, v
		}
	}
	return best
}

// Exists reports whether path exists. Errors other than "not found" count as existing
// so callers never treat an unreadable directory as absent.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
