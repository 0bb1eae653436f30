package exec

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"testing"

	"appstore/internal/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(logger.NewLogger(logger.Options{Console: &buf}))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestCommandRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}
	buf := captureLogs(t)
	ctx := context.Background()

	echo := Command{
		Name:         "echo",
		Args:         []string{"hello"},
		RunningLevel: logger.LevelNotice,
		OutputLevel:  logger.LevelNotice,
		OutputPrefix: "echo",
	}
	if err := echo.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Running: echo hello") || !strings.Contains(out, "echo: hello") {
		t.Errorf("Unexpected log output:\n%s", out)
	}
}

func TestCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}
	buf := captureLogs(t)

	cmd := Command{
		Name:           "false",
		RunningLevel:   logger.LevelDebug,
		Quiet:          true,
		FailureLevel:   logger.LevelWarn,
		FailureMessage: "false failed",
	}
	if err := cmd.Run(context.Background()); err == nil {
		t.Fatal("Expected an error from false")
	}
	out := buf.String()
	if strings.Contains(out, "Running:") {
		t.Errorf("Running line should be below the console level:\n%s", out)
	}
	if !strings.Contains(out, "false failed") || !strings.Contains(out, "Failing command: false") {
		t.Errorf("Expected failure messages, got:\n%s", out)
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "chown", Args: []string{"-R", "1000:1000", "/srv/apps"}}
	if got := c.String(); got != "chown -R 1000:1000 /srv/apps" {
		t.Errorf("String() = %q", got)
	}
}
