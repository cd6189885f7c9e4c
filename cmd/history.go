package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists journaled sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.settings(cmd)

	db, err := shared.OpenHistory(config.History)
	if errors.Is(err, shared.ErrHistoryDisabled) {
		return fmt.Errorf("%w: set history.path or %s", err, shared.EnvHistoryPath)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSyncRunRepository(db)

	var runs []*models.SyncRun
	if cmd.Bool("latest") {
		run, err := repo.Latest(config.Playlist.ID)
		if err != nil {
			return err
		}
		runs = []*models.SyncRun{run}
	} else {
		if runs, err = repo.List(int(cmd.Int("limit"))); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		if runs == nil {
			runs = []*models.SyncRun{}
		}
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No sync runs recorded.\n")
	}

	r.writePlainHeader("Sync History")
	for _, run := range runs {
		r.writePlain("%s  %-9s  %s  new %d/%d  %s",
			run.StartedAt.Local().Format(time.DateTime),
			run.Status,
			run.PlaylistID,
			run.NewCount,
			run.ListedCount,
			run.Duration().Round(time.Millisecond),
		)
		if run.DryRun {
			r.writePlain("  (dry run)")
		}
		r.writePlain("\n")
		if run.Error != "" {
			r.writePlain("    error: %s\n", run.Error)
		}
	}
	return nil
}
