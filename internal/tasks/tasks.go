// package tasks implements the playlist sync pipeline.
//
// The core abstraction is Engine, which reads the existing log, lists the playlist, enriches new items with tags
// and appends them. Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
)

// ItemStore is the persistent record of synced items.
type ItemStore interface {
	Path() string
	ExistingIDs() (models.IDSet, error)
	Append(items []models.Item) error
}

// RunRecorder journals finished runs. Implementations must not affect deduplication.
type RunRecorder interface {
	RecordRun(run *models.SyncRun) error
}

// SyncOpts selects the playlist to sync.
type SyncOpts struct {
	PlaylistID   string
	PlaylistName string // Written to every row as the display name
	DryRun       bool   // Fetch and enrich, but do not append
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	PlaylistID    string        `json:"playlist_id"`
	PlaylistName  string        `json:"playlist_name"`
	OutputPath    string        `json:"output_path"`
	ExistingCount int           `json:"existing_count"`
	ListedCount   int           `json:"listed_count"`
	NewCount      int           `json:"new_count"`
	Items         []models.Item `json:"items"`
	DryRun        bool          `json:"dry_run"`
	Written       bool          `json:"written"`
}

// Engine runs the sync pipeline against a [services.Catalog] and an [ItemStore].
type Engine struct {
	catalog  services.Catalog
	store    ItemStore
	recorder RunRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NewEngine creates a new Engine. A nil logger discards output.
func NewEngine(catalog services.Catalog, store ItemStore, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{catalog: catalog, store: store, logger: logger, now: time.Now}
}

// WithRecorder journals every run to r. Recorder failures are logged and otherwise ignored.
func (e *Engine) WithRecorder(r RunRecorder) *Engine {
	e.recorder = r
	return e
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs one sync: every playlist item whose ID is not yet in the store is enriched with tags and appended.
//
// The steps are strictly sequential and any error aborts the run before anything is written.
// A run that finds no new items never touches the store.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	started := e.now()
	result := &SyncResult{PlaylistID: opts.PlaylistID, PlaylistName: opts.PlaylistName, DryRun: opts.DryRun}

	err := e.run(ctx, progress, opts, result)
	e.record(result, err, started)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

func (e *Engine) run(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts, result *SyncResult) error {
	if e.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return fmt.Errorf("%w: item store not initialized", shared.ErrServiceUnavailable)
	}
	if opts.PlaylistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	result.OutputPath = e.store.Path()

	e.sendProgress(progress, loadExistingUpdate(result.OutputPath))
	existing, err := e.store.ExistingIDs()
	if err != nil {
		return fmt.Errorf("failed to load existing records: %w", err)
	}
	result.ExistingCount = existing.Len()

	e.sendProgress(progress, listPlaylistUpdate(opts.PlaylistID, existing.Len()))
	refs, err := e.catalog.ListPlaylistItems(ctx, opts.PlaylistID)
	if err != nil {
		return fmt.Errorf("failed to list playlist %s: %w", opts.PlaylistID, err)
	}
	result.ListedCount = len(refs)

	var entries models.EntrySet
	for _, ref := range refs {
		if existing.Has(ref.ID) {
			continue
		}
		if !entries.Add(&models.Entry{ID: ref.ID, Title: ref.Title}) {
			e.logger.Debug("duplicate playlist member", "id", ref.ID)
		}
	}

	e.sendProgress(progress, listedUpdate(len(refs), entries.Len()))
	e.logger.Info("listed playlist", "playlist", opts.PlaylistID, "listed", len(refs), "new", entries.Len())

	if entries.Len() == 0 {
		result.Items = []models.Item{}
		return nil
	}

	e.sendProgress(progress, fetchTagsUpdate(entries.Len()))
	tags, err := e.catalog.GetItemTags(ctx, entries.IDs())
	if err != nil {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	for id, t := range tags {
		entries.SetTags(id, t)
	}

	result.Items = entries.Items(opts.PlaylistID, opts.PlaylistName, formatter.WatchURL)
	result.NewCount = len(result.Items)

	e.sendProgress(progress, writeLogUpdate(result.NewCount, opts.DryRun))
	if opts.DryRun {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.store.Append(result.Items); err != nil {
		return err
	}
	result.Written = true

	e.logger.Info("appended items", "path", result.OutputPath, "count", result.NewCount)
	return nil
}

func (e *Engine) record(result *SyncResult, runErr error, started time.Time) {
	if e.recorder == nil {
		return
	}

	run := &models.SyncRun{
		ID:           shared.GenerateID(),
		PlaylistID:   result.PlaylistID,
		PlaylistName: result.PlaylistName,
		OutputPath:   result.OutputPath,
		ListedCount:  result.ListedCount,
		NewCount:     result.NewCount,
		DryRun:       result.DryRun,
		Status:       models.RunSucceeded,
		StartedAt:    started,
		FinishedAt:   e.now(),
	}
	if result.Written {
		for _, item := range result.Items {
			run.ItemIDs = append(run.ItemIDs, item.ID)
		}
	}
	if runErr != nil {
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	}

	if err := e.recorder.RecordRun(run); err != nil {
		e.logger.Warn("failed to record sync run", "error", err)
	}
}
