package main

import (
	"context"
	"os"

	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "plsync",
		Usage:    "Append new YouTube playlist videos and their tags to a CSV log",
		Version:  "0.1.0",
		Flags:    syncFlags(),
		Action:   runner.Sync,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.logger.Error("application error", "error", err)
		os.Exit(1)
	}
}
