package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync appends every playlist item not yet in the output log.
//
// Configuration is validated before any network call.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	config := r.settings(cmd)
	if err := config.Validate(); err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	useTUI := cmd.Bool("tui")

	if useTUI {
		// Logs would corrupt the TUI rendering
		fileLogger, err := shared.NewFileLogger(tuiLogPath)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		r.SetLogger(fileLogger)
	}

	logger := shared.WithLogger(r.logger, "run", shared.GenerateID())

	catalog, err := r.catalogFor(ctx, config)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := config.EnsureOutputDir(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrLogWrite, err)
		}
	}

	store := repositories.NewItemLog(config.OutputPath(), logger)
	engine := tasks.NewEngine(catalog, store, logger)
	if db := r.openHistory(config, logger); db != nil {
		defer db.Close()
		engine.WithRecorder(repositories.NewSyncRunRepository(db))
	}

	opts := tasks.SyncOpts{
		PlaylistID:   config.Playlist.ID,
		PlaylistName: config.Playlist.Name,
		DryRun:       dryRun,
	}
	logger.Info("starting sync", "playlist", opts.PlaylistID, "output", store.Path(), "dry_run", dryRun)

	if useTUI {
		return r.runTUI(ctx, engine, opts)
	}

	if cmd.Bool("json") {
		result, err := engine.Run(ctx, nil, opts)
		if err != nil {
			return err
		}
		return r.writeJSON(result, true)
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase != tasks.Complete {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writeSummary(result)
	return nil
}

// openHistory opens the run history database when one is configured.
// Any failure is logged and disables the journal for this run.
func (r *Runner) openHistory(config *shared.Config, logger *log.Logger) *sql.DB {
	db, err := shared.OpenHistory(config.History)
	if errors.Is(err, shared.ErrHistoryDisabled) {
		return nil
	}
	if err != nil {
		logger.Warn("run history unavailable", "path", config.History.Path, "error", err)
		return nil
	}
	return db
}

func (r *Runner) writeSummary(result *tasks.SyncResult) {
	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Playlist: %s (%s)\n", result.PlaylistName, result.PlaylistID)
	r.writePlain("Output: %s\n", result.OutputPath)
	r.writePlain("Listed: %d, already recorded: %d, new: %d\n", result.ListedCount, result.ExistingCount, result.NewCount)

	if result.NewCount == 0 {
		r.writePlain("\nNo new items.\n")
		return
	}

	if result.DryRun {
		r.writePlain("\nDry run, %d items not written:\n", result.NewCount)
	} else {
		r.writePlain("\nAppended %d items:\n", result.NewCount)
	}
	for i, item := range result.Items {
		r.writePlain("  %d. %s (%s)\n", i+1, item.Title, item.ID)
	}
}
