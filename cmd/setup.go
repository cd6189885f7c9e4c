package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the configuration template to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config file created at %s\n", configPath)
	r.writePlain("Set %s in the environment or in .env before running sync.\n", shared.EnvAPIKey)
	return nil
}

// SetupDatabase initializes the run history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.settings(cmd)
	if config.History.Path == "" {
		return fmt.Errorf("%w: set history.path, %s or --history", shared.ErrHistoryDisabled, shared.EnvHistoryPath)
	}

	r.logger.Info("initializing database", "path", config.History.Path)

	db, err := shared.NewDatabase(config.History.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.History.MaxOpenConns, config.History.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			if errors.Is(err, shared.ErrNoMigrations) {
				return r.writePlain("No migrations to roll back.\n")
			}
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("✓ Rolled back latest migration on %s\n", config.History.Path)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.History.Path)
	r.writePlain("✓ Run history database ready at %s\n", config.History.Path)
	return nil
}
