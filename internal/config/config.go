package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"appstore/internal/constants"
	"appstore/internal/paths"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// AppConfig holds the application configuration settings.
type AppConfig struct {
	Paths     PathConfig      `toml:"paths"`
	Sync      SyncConfig      `toml:"sync"`
	Ownership OwnershipConfig `toml:"ownership"`
	Log       LogConfig       `toml:"log"`

	// Runtime only, not saved to TOML
	RootDir string `toml:"-"`
}

// PathConfig holds directory path settings.
type PathConfig struct {
	Root string `toml:"root"`
}

// SyncConfig holds settings for network-facing git operations.
type SyncConfig struct {
	Timeout Duration `toml:"timeout"`
}

// OwnershipConfig identifies the unprivileged service account that owns mirrors.
type OwnershipConfig struct {
	UID int `toml:"uid"`
	GID int `toml:"gid"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	File string `toml:"file"` // empty disables the file log
}

// Duration is a time.Duration stored as text ("30s") in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the configuration used when no file exists.
func Default() AppConfig {
	return AppConfig{
		Paths: PathConfig{
			Root: "${HOME}/umbrel",
		},
		Sync: SyncConfig{
			Timeout: Duration(constants.DefaultSyncTimeout),
		},
		Ownership: OwnershipConfig{
			UID: constants.DefaultServiceUID,
			GID: constants.DefaultServiceGID,
		},
	}
}

// ExpandVariables expands environment variables in the config values.
// It supports:
// - ${XDG_CONFIG_HOME} -> xdg.ConfigHome
// - ${XDG_DATA_HOME}   -> xdg.DataHome
// - ${XDG_STATE_HOME}  -> xdg.StateHome
// - ${HOME}            -> os.UserHomeDir()
// - ${USER}            -> Current username
func ExpandVariables(val string) string {
	mapper := func(varName string) string {
		switch varName {
		case "XDG_CONFIG_HOME":
			return xdg.ConfigHome
		case "XDG_DATA_HOME":
			return xdg.DataHome
		case "XDG_STATE_HOME":
			return xdg.StateHome
		case "HOME":
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			return home
		case "USER":
			u, err := user.Current()
			if err != nil {
				return os.Getenv("USER")
			}
			return u.Username
		}
		return os.Getenv(varName)
	}
	return os.Expand(val, mapper)
}

// LoadAppConfig reads the configuration file and returns the configuration.
// A missing or unreadable file yields the defaults, which are then written out.
func LoadAppConfig() AppConfig {
	conf := Default()

	path := paths.GetConfigFilePath()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &conf); err != nil {
			conf = Default()
		}
	} else if os.IsNotExist(err) {
		_ = SaveAppConfig(conf)
	}

	conf.resolve()
	return conf
}

// resolve fills runtime-only fields and applies environment overrides.
func (c *AppConfig) resolve() {
	if c.Sync.Timeout <= 0 {
		c.Sync.Timeout = Duration(constants.DefaultSyncTimeout)
	}
	root := c.Paths.Root
	if env := os.Getenv(constants.RootEnvVar); env != "" {
		root = env
	}
	c.RootDir = ExpandVariables(root)
	if c.Log.File != "" {
		c.Log.File = ExpandVariables(c.Log.File)
	}
}

// SyncTimeout returns the bound applied to clone, pull and fetch.
func (c AppConfig) SyncTimeout() time.Duration {
	return time.Duration(c.Sync.Timeout)
}

// SaveAppConfig writes the configuration to appstore.toml.
func SaveAppConfig(conf AppConfig) error {
	path := paths.GetConfigFilePath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(conf)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
