package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	tu "github.com/desertthunder/plsync/internal/testing"
)

const (
	testPlaylistID   = "PLOU2XLYxmsIKC8eODk_RjI5gG__v2EX1B"
	testPlaylistName = "Google Developers Japan"
)

func refs(ids ...string) []models.ItemRef {
	out := make([]models.ItemRef, len(ids))
	for i, id := range ids {
		out[i] = models.ItemRef{ID: id, Title: "Video " + id}
	}
	return out
}

func row(title, id string, tags ...string) string {
	return strings.Join(formatter.EncodeRow(models.Item{
		Title: title, Tags: tags, PlaylistName: testPlaylistName, ID: id, PlaylistID: testPlaylistID,
	}), ",")
}

func newLog(t *testing.T) *repositories.ItemLog {
	t.Helper()
	return repositories.NewItemLog(filepath.Join(t.TempDir(), "movies_default.csv"), nil)
}

func opts() SyncOpts {
	return SyncOpts{PlaylistID: testPlaylistID, PlaylistName: testPlaylistName}
}

func TestEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("appends only new items", func(t *testing.T) {
		store := newLog(t)
		if err := store.Append([]models.Item{
			{Title: "A", ID: "a", PlaylistName: testPlaylistName, PlaylistID: testPlaylistID},
			{Title: "B", ID: "b", PlaylistName: testPlaylistName, PlaylistID: testPlaylistID},
		}); err != nil {
			t.Fatalf("failed to seed log: %v", err)
		}

		catalog := &tu.MockCatalog{
			Refs: []models.ItemRef{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "New Video"}},
			Tags: map[string][]string{"c": {"x", "y"}},
		}

		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.NewCount != 1 || result.ExistingCount != 2 || result.ListedCount != 3 || !result.Written {
			t.Errorf("unexpected result %+v", result)
		}

		if got := strings.Join(catalog.RequestedIDs(), ","); got != "c" {
			t.Errorf("expected only c to be looked up, got %s", got)
		}

		content := tu.MustReadFile(t, store.Path())
		want := "New Video,https://www.youtube.com/watch?v=c,\"x, y\"," + testPlaylistName + ",c," + testPlaylistID + "\r\n"
		if !strings.HasSuffix(content, want) {
			t.Errorf("expected appended row %q, got %q", want, content)
		}
		if strings.Count(content, formatter.ColID) != 1 {
			t.Error("expected header exactly once")
		}
	})

	t.Run("first run creates the log", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: refs("a", "b")}

		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.NewCount != 2 {
			t.Errorf("expected 2 new items, got %d", result.NewCount)
		}

		want := formatter.BOM + strings.Join(formatter.Header(), ",") + "\r\n" +
			row("Video a", "a") + "\r\n" + row("Video b", "b") + "\r\n"
		if got := tu.MustReadFile(t, store.Path()); got != want {
			t.Errorf("unexpected log:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: refs("a", "b", "c"), Tags: map[string][]string{"b": {"t"}}}
		engine := NewEngine(catalog, store, nil)

		if _, err := engine.Run(ctx, nil, opts()); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		before := tu.MustReadFile(t, store.Path())

		result, err := engine.Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if result.NewCount != 0 || result.Written {
			t.Errorf("expected no new items, got %+v", result)
		}
		if len(catalog.TagRequests) != 1 {
			t.Errorf("expected tags to be fetched once, got %d", len(catalog.TagRequests))
		}
		if after := tu.MustReadFile(t, store.Path()); after != before {
			t.Error("expected log to be unchanged")
		}
	})

	t.Run("no new items leaves no file", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{}

		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.NewCount != 0 || len(result.Items) != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if len(catalog.TagRequests) != 0 {
			t.Error("expected no tag lookups")
		}
		tu.AssertNoFile(t, store.Path())
	})

	t.Run("duplicates in listing keep first occurrence", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: []models.ItemRef{
			{ID: "a", Title: "first"}, {ID: "b", Title: "B"}, {ID: "a", Title: "second"},
		}}

		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.NewCount != 2 || result.Items[0].Title != "first" || result.Items[1].ID != "b" {
			t.Errorf("unexpected items %+v", result.Items)
		}
		if got := strings.Join(catalog.RequestedIDs(), ","); got != "a,b" {
			t.Errorf("expected a,b to be looked up once, got %s", got)
		}
	})

	t.Run("untagged items get an empty tags column", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: refs("q")}

		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tags := result.Items[0].Tags; tags == nil || len(tags) != 0 {
			t.Errorf("expected empty tags, got %#v", tags)
		}
		if !strings.Contains(tu.MustReadFile(t, store.Path()), "watch?v=q,,") {
			t.Error("expected empty tags column")
		}
	})

	t.Run("listing error writes nothing", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{ListErr: fmt.Errorf("%w: boom", shared.ErrAPIRequest)}

		_, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		tu.AssertNoFile(t, store.Path())
	})

	t.Run("tag error writes nothing", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: refs("a"), TagsErr: fmt.Errorf("%w: quota", shared.ErrAPIRequest)}

		_, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		tu.AssertNoFile(t, store.Path())
	})

	t.Run("malformed log aborts before listing", func(t *testing.T) {
		store := newLog(t)
		tu.MustWriteFile(t, store.Path(), "title,url\r\n")
		catalog := &tu.MockCatalog{Refs: refs("a")}

		_, err := NewEngine(catalog, store, nil).Run(ctx, nil, opts())
		if !errors.Is(err, shared.ErrMalformedLog) {
			t.Errorf("expected ErrMalformedLog, got %v", err)
		}
		if catalog.ListCalls != 0 {
			t.Error("expected playlist not to be listed")
		}
	})

	t.Run("dry run does not write", func(t *testing.T) {
		store := newLog(t)
		catalog := &tu.MockCatalog{Refs: refs("a", "b")}

		o := opts()
		o.DryRun = true
		result, err := NewEngine(catalog, store, nil).Run(ctx, nil, o)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.NewCount != 2 || result.Written || !result.DryRun {
			t.Errorf("unexpected result %+v", result)
		}
		tu.AssertNoFile(t, store.Path())
	})

	t.Run("requires a playlist id", func(t *testing.T) {
		_, err := NewEngine(&tu.MockCatalog{}, newLog(t), nil).Run(ctx, nil, SyncOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("requires a catalog", func(t *testing.T) {
		_, err := NewEngine(nil, newLog(t), nil).Run(ctx, nil, opts())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("cancelled before write", func(t *testing.T) {
		store := newLog(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewEngine(&tu.MockCatalog{Refs: refs("a")}, store, nil).Run(cctx, nil, opts())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		tu.AssertNoFile(t, store.Path())
	})
}

func TestEngineProgress(t *testing.T) {
	progress := make(chan ProgressUpdate, 16)
	catalog := &tu.MockCatalog{Refs: refs("a")}

	if _, err := NewEngine(catalog, newLog(t), nil).Run(context.Background(), progress, opts()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	close(progress)

	var phases []string
	for u := range progress {
		phases = append(phases, u.Phase.String())
	}

	want := "load_existing,list_playlist,list_playlist,fetch_tags,write_log,complete"
	if got := strings.Join(phases, ","); got != want {
		t.Errorf("expected phases %s, got %s", want, got)
	}

	t.Run("full channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		if _, err := NewEngine(&tu.MockCatalog{Refs: refs("a")}, newLog(t), nil).Run(context.Background(), progress, opts()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestEngineRecorder(t *testing.T) {
	t.Run("records successful run", func(t *testing.T) {
		rec := &tu.MockRecorder{}
		engine := NewEngine(&tu.MockCatalog{Refs: refs("a", "b")}, newLog(t), nil).WithRecorder(rec)

		if _, err := engine.Run(context.Background(), nil, opts()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rec.Runs) != 1 {
			t.Fatalf("expected 1 recorded run, got %d", len(rec.Runs))
		}

		run := rec.Runs[0]
		if run.Status != models.RunSucceeded || run.NewCount != 2 || strings.Join(run.ItemIDs, ",") != "a,b" {
			t.Errorf("unexpected run %+v", run)
		}
		if err := run.Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}
	})

	t.Run("records failed run", func(t *testing.T) {
		rec := &tu.MockRecorder{}
		catalog := &tu.MockCatalog{ListErr: errors.New("boom")}
		engine := NewEngine(catalog, newLog(t), nil).WithRecorder(rec)

		if _, err := engine.Run(context.Background(), nil, opts()); err == nil {
			t.Fatal("expected error")
		}
		if len(rec.Runs) != 1 || rec.Runs[0].Status != models.RunFailed || !strings.Contains(rec.Runs[0].Error, "boom") {
			t.Errorf("unexpected runs %+v", rec.Runs)
		}
	})

	t.Run("recorder failure does not fail the sync", func(t *testing.T) {
		rec := &tu.MockRecorder{Err: errors.New("disk full")}
		store := newLog(t)
		engine := NewEngine(&tu.MockCatalog{Refs: refs("a")}, store, nil).WithRecorder(rec)

		if _, err := engine.Run(context.Background(), nil, opts()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, store.Path())
	})

	t.Run("dry run records no item ids", func(t *testing.T) {
		rec := &tu.MockRecorder{}
		o := opts()
		o.DryRun = true

		if _, err := NewEngine(&tu.MockCatalog{Refs: refs("a")}, newLog(t), nil).WithRecorder(rec).Run(context.Background(), nil, o); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rec.Runs[0].ItemIDs) != 0 || !rec.Runs[0].DryRun {
			t.Errorf("unexpected run %+v", rec.Runs[0])
		}
	})
}
