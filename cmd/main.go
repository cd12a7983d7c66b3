package main

import (
	"context"
	"os"

	"github.com/ohmpatel46/spotify-wrapped/internal/services"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.Resolve("config.toml", os.Getenv)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	provider, err := services.NewProvider(config.Provider, services.ProviderOpts{Logger: logger})
	if err != nil {
		logger.Fatalf("failed to initialize provider: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Provider: provider,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "wrapped",
		Usage:    "Spotify-style listening insights and wrapped playlists",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
