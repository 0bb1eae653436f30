// Package exec runs external commands and routes their output to the logger.
package exec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"appstore/internal/logger"
)

// Command is an external command whose progress and output are logged.
type Command struct {
	Name string
	Args []string

	// Level of the "Running: ..." line.
	RunningLevel slog.Level
	// Level of each output line. Output is discarded when Quiet is set.
	OutputLevel slog.Level
	// OutputPrefix is shown in front of each output line when set.
	OutputPrefix string
	Quiet        bool
	// FailureLevel and FailureMessage describe a non-zero exit.
	FailureLevel   slog.Level
	FailureMessage string
}

// String is the command line as shown in logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Run executes the command with combined stdout and stderr, logging as configured.
func (c Command) Run(ctx context.Context) error {
	logger.Log(ctx, c.RunningLevel, "Running: {{_RunningCommand_}}%s{{|-|}}", c.String())

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	if !c.Quiet {
		c.logOutput(ctx, &out)
	}

	if err != nil {
		if c.FailureMessage != "" {
			logger.Log(ctx, c.FailureLevel, c.FailureMessage)
		}
		logger.Log(ctx, c.FailureLevel, "Failing command: {{_FailingCommand_}}%s{{|-|}}", c.String())
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

func (c Command) logOutput(ctx context.Context, out *bytes.Buffer) {
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if c.OutputPrefix != "" {
			logger.Log(ctx, c.OutputLevel, "{{_RunningCommand_}}%s:{{|-|}} %s", c.OutputPrefix, line)
		} else {
			logger.Log(ctx, c.OutputLevel, "%s", line)
		}
	}
}
