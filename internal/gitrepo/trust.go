package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5/plumbing/format/config"
)

const (
	safeSection   = "safe"
	safeDirectory = "directory"
)

// GlobalConfigPath returns the git config file that receives safe.directory entries,
// honouring GIT_CONFIG_GLOBAL like git itself.
func GlobalConfigPath() string {
	if p := os.Getenv("GIT_CONFIG_GLOBAL"); p != "" {
		return p
	}
	return filepath.Join(xdg.Home, ".gitconfig")
}

// Trust adds path to safe.directory in the global git config unless it is already listed.
// Existing content is never rewritten; a new [safe] section is appended.
func (r *Repo) Trust(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, trusted, err := r.trustedDirectories()
	if err != nil {
		return err
	}
	for _, dir := range trusted {
		if dir == path {
			return nil
		}
	}

	entry := config.New()
	entry.AddOption(safeSection, config.NoSubsection, safeDirectory, path)
	var buf bytes.Buffer
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	if err := config.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("encode safe.directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.GlobalConfigPath), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(r.GlobalConfigPath), err)
	}
	f, err := os.OpenFile(r.GlobalConfigPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.GlobalConfigPath, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", r.GlobalConfigPath, err)
	}
	return nil
}

// trustedDirectories returns the raw global config and its safe.directory values.
func (r *Repo) trustedDirectories() ([]byte, []string, error) {
	data, err := os.ReadFile(r.GlobalConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", r.GlobalConfigPath, err)
	}

	cfg := config.New()
	if err := config.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", r.GlobalConfigPath, err)
	}
	return data, cfg.Section(safeSection).Options.GetAll(safeDirectory), nil
}
