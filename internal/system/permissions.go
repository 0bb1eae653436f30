package system

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"appstore/internal/exec"
	"appstore/internal/logger"
)

// Owner resets ownership of a directory tree to the platform service account.
type Owner struct {
	UID int
	GID int
}

// TakeOwnership runs chown -R on path. It is best effort: failures are logged and never returned.
// Without root privileges the command goes through "sudo -n" so it never prompts.
func (o Owner) TakeOwnership(ctx context.Context, path string) {
	if runtime.GOOS == "windows" || path == "" {
		return
	}

	if isSystemPath(path) {
		logger.Error(ctx, "Skipping ownership of '{{_Folder_}}%s{{|-|}}' because it is a system path.", path)
		return
	}

	owner := fmt.Sprintf("%d:%d", o.UID, o.GID)
	command, args := "chown", []string{"-R", owner, path}
	if os.Geteuid() != 0 {
		command, args = "sudo", append([]string{"-n", "chown"}, args...)
	}

	logger.Info(ctx, "Taking ownership of '{{_Folder_}}%s{{|-|}}' for '{{_User_}}%s{{|-|}}'", path, owner)
	chown := exec.Command{
		Name:           command,
		Args:           args,
		RunningLevel:   logger.LevelDebug,
		OutputLevel:    logger.LevelInfo,
		OutputPrefix:   "chown",
		FailureLevel:   logger.LevelWarn,
		FailureMessage: fmt.Sprintf("Failed to set ownership of '{{_Folder_}}%s{{|-|}}'.", path),
	}
	_ = chown.Run(ctx)
}

func isSystemPath(path string) bool {
	systemPaths := []string{
		"/", "/bin", "/boot", "/dev", "/etc", "/home", "/lib", "/media",
		"/mnt", "/opt", "/proc", "/root", "/sbin", "/srv", "/sys", "/tmp", "/unix",
		"/usr", "/usr/include", "/usr/lib", "/usr/libexec", "/usr/local", "/usr/share",
		"/var", "/var/log", "/var/mail", "/var/spool", "/var/tmp",
	}
	for _, sp := range systemPaths {
		if path == sp {
			return true
		}
	}
	return false
}
