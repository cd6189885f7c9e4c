package models

import (
	"fmt"
	"time"
)

// RunStatus is the outcome of a sync run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// SyncRun is a journal entry describing one sync invocation.
type SyncRun struct {
	ID           string    `json:"id"`
	PlaylistID   string    `json:"playlist_id"`
	PlaylistName string    `json:"playlist_name"`
	OutputPath   string    `json:"output_path"`
	ListedCount  int       `json:"listed_count"`
	NewCount     int       `json:"new_count"`
	ItemIDs      []string  `json:"item_ids,omitempty"`
	DryRun       bool      `json:"dry_run"`
	Status       RunStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Validate checks the fields required for persistence.
func (r *SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run id is required")
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	switch r.Status {
	case RunSucceeded, RunFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.Status)
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("run finished before it started")
	}
	return nil
}
