package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file when missing, initializes the database and checks the credentials.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	config := r.config
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
		r.config = config
		r.writePlain("✓ Created %s\n", configPath)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)

	if _, err := shared.LoadCredentials(r.lookup); err != nil {
		r.writePlainln("⚠ %v", err)
		r.writePlain("Create a Spotify app at https://developer.spotify.com/dashboard and set:\n")
		r.writePlain("  %s, %s, %s\n", shared.EnvClientID, shared.EnvClientSecret, shared.EnvRedirectURI)
		return nil
	}

	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'spotdash auth' to authorize access to your top tracks\n")
	r.writePlain("2. Run 'spotdash report' or 'spotdash serve'\n")
	return nil
}
