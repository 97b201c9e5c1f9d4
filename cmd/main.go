package main

import (
	"context"
	"os"

	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "spotdash",
		Usage:    "Analyze your Spotify top tracks and discover recommendations",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Configure,
		After:    runner.Close,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
