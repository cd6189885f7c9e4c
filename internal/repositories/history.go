package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// SyncRunRepository persists [models.SyncRun] journal entries in the run history database.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

const syncRunColumns = `
	id, playlist_id, playlist_name, output_path, listed_count, new_count,
	dry_run, status, error, started_at, finished_at, item_ids
`

// Create inserts a run. An ID is generated when the run has none.
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO sync_runs (` + syncRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		run.ID,
		run.PlaylistID,
		run.PlaylistName,
		run.OutputPath,
		run.ListedCount,
		run.NewCount,
		run.DryRun,
		string(run.Status),
		run.Error,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		strings.Join(run.ItemIDs, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// RecordRun journals a finished sync run.
func (r *SyncRunRepository) RecordRun(run *models.SyncRun) error {
	return r.Create(run)
}

// List returns the most recent runs first. A non-positive limit returns every run.
func (r *SyncRunRepository) List(limit int) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs ORDER BY started_at DESC, rowid DESC`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run for a playlist.
func (r *SyncRunRepository) Latest(playlistID string) (*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE playlist_id = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`

	run, err := scanSyncRun(r.db.QueryRow(query, playlistID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrRunNotFound, playlistID)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(s scanner) (*models.SyncRun, error) {
	var (
		run     models.SyncRun
		status  string
		itemIDs string
	)

	err := s.Scan(
		&run.ID, &run.PlaylistID, &run.PlaylistName, &run.OutputPath, &run.ListedCount, &run.NewCount,
		&run.DryRun, &status, &run.Error, &run.StartedAt, &run.FinishedAt, &itemIDs,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run.Status = models.RunStatus(status)
	if itemIDs != "" {
		run.ItemIDs = strings.Split(itemIDs, ",")
	}
	return &run, nil
}
