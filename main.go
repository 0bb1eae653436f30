package main

import (
	"context"
	"log/slog"
	"os"

	"appstore/cmd"
	"appstore/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	slog.SetDefault(logger.NewLogger(logger.Options{}))
	ctx := context.Background()

	defer logger.Cleanup()

	// Recover from logger.FatalError so deferred cleanup still runs
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(logger.FatalError); ok {
				exitCode = 1
				return
			}
			panic(r)
		}
	}()

	inv, err := cmd.Parse(os.Args[1:])
	if err != nil {
		cmd.Report(ctx, err)
		return 1
	}

	return cmd.Execute(ctx, inv)
}
