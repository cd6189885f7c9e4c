package repositories

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	tu "github.com/desertthunder/plsync/internal/testing"
)

const headerLine = "タイトル,URL,タグ,プレイリスト名,ビデオID,プレイリストID\r\n"

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies_default.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestItemLogExistingIDs(t *testing.T) {
	t.Run("missing file yields empty set", func(t *testing.T) {
		log := NewItemLog(filepath.Join(t.TempDir(), "absent.csv"), nil)

		ids, err := log.ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids.Len() != 0 {
			t.Errorf("expected empty set, got %v", ids.Sorted())
		}
	})

	t.Run("empty file yields empty set", func(t *testing.T) {
		ids, err := NewItemLog(writeLog(t, ""), nil).ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids.Len() != 0 {
			t.Errorf("expected empty set, got %v", ids.Sorted())
		}
	})

	t.Run("header only yields empty set", func(t *testing.T) {
		ids, err := NewItemLog(writeLog(t, formatter.BOM+headerLine), nil).ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids.Len() != 0 {
			t.Errorf("expected empty set, got %v", ids.Sorted())
		}
	})

	t.Run("BOM only yields empty set", func(t *testing.T) {
		for _, content := range []string{formatter.BOM, formatter.BOM + "\r\n"} {
			ids, err := NewItemLog(writeLog(t, content), nil).ExistingIDs()
			if err != nil {
				t.Fatalf("expected no error for %q, got %v", content, err)
			}
			if ids.Len() != 0 {
				t.Errorf("expected empty set, got %v", ids.Sorted())
			}
		}
	})

	t.Run("reads IDs by column name", func(t *testing.T) {
		content := formatter.BOM + headerLine +
			"A,https://www.youtube.com/watch?v=a,,Talks,a,PL1\r\n" +
			"\r\n" +
			"B,https://www.youtube.com/watch?v=b,\"x, y\",Talks,b,PL1\r\n"

		ids, err := NewItemLog(writeLog(t, content), nil).ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := strings.Join(ids.Sorted(), ","); got != "a,b" {
			t.Errorf("expected a,b, got %s", got)
		}
	})

	t.Run("reordered columns", func(t *testing.T) {
		content := "ビデオID,タイトル\n" + "z,Zed\n"

		ids, err := NewItemLog(writeLog(t, content), nil).ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ids.Has("z") {
			t.Errorf("expected z, got %v", ids.Sorted())
		}
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		content := formatter.BOM + headerLine +
			"truncated,row\r\n" +
			"C,https://www.youtube.com/watch?v=c,,Talks,c,PL1\r\n"

		ids, err := NewItemLog(writeLog(t, content), nil).ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := strings.Join(ids.Sorted(), ","); got != "c" {
			t.Errorf("expected c, got %s", got)
		}
	})

	t.Run("header without ID column fails", func(t *testing.T) {
		_, err := NewItemLog(writeLog(t, "title,url\r\nA,u\r\n"), nil).ExistingIDs()
		if !errors.Is(err, shared.ErrMalformedLog) {
			t.Errorf("expected ErrMalformedLog, got %v", err)
		}
	})
}

func TestItemLogAppend(t *testing.T) {
	item := func(id, title string, tags ...string) models.Item {
		return models.Item{Title: title, Tags: tags, PlaylistName: "Talks", ID: id, PlaylistID: "PL1"}
	}

	t.Run("zero items leaves no file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		log := NewItemLog(path, nil)

		if err := log.Append(nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected file to not be created")
		}
	})

	t.Run("creates file with BOM and header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "out.csv")
		log := NewItemLog(path, nil)

		if err := log.Append([]models.Item{item("c", "New Video", "x", "y")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := formatter.BOM + headerLine +
			"New Video,https://www.youtube.com/watch?v=c,\"x, y\",Talks,c,PL1\r\n"
		if got := tu.MustReadFile(t, path); got != want {
			t.Errorf("unexpected content:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("header written exactly once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		log := NewItemLog(path, nil)

		if err := log.Append([]models.Item{item("a", "A")}); err != nil {
			t.Fatalf("first append failed: %v", err)
		}
		if err := log.Append([]models.Item{item("b", "B")}); err != nil {
			t.Fatalf("second append failed: %v", err)
		}

		content := tu.MustReadFile(t, path)
		if n := strings.Count(content, formatter.ColID); n != 1 {
			t.Errorf("expected header once, found %d", n)
		}
		if n := strings.Count(content, formatter.BOM); n != 1 {
			t.Errorf("expected BOM once, found %d", n)
		}
		if !strings.HasSuffix(content, "B,https://www.youtube.com/watch?v=b,,Talks,b,PL1\r\n") {
			t.Errorf("expected appended row at end, got %q", content)
		}
	})

	t.Run("existing file gets no header", func(t *testing.T) {
		existing := formatter.BOM + headerLine + "A,https://www.youtube.com/watch?v=a,,Talks,a,PL1\r\n"
		path := writeLog(t, existing)

		if err := NewItemLog(path, nil).Append([]models.Item{item("b", "B")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := tu.MustReadFile(t, path)
		if !strings.HasPrefix(content, existing) {
			t.Error("existing rows should be preserved")
		}
		if strings.Count(content, formatter.ColID) != 1 {
			t.Error("header should not be repeated")
		}
	})

	t.Run("empty existing file gets a header", func(t *testing.T) {
		path := writeLog(t, "")

		if err := NewItemLog(path, nil).Append([]models.Item{item("a", "A")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := formatter.BOM + headerLine + "A,https://www.youtube.com/watch?v=a,,Talks,a,PL1\r\n"
		if got := tu.MustReadFile(t, path); got != want {
			t.Errorf("unexpected content:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("BOM only file gets a single BOM and header", func(t *testing.T) {
		path := writeLog(t, formatter.BOM)
		log := NewItemLog(path, nil)

		if err := log.Append([]models.Item{item("a", "A")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := formatter.BOM + headerLine + "A,https://www.youtube.com/watch?v=a,,Talks,a,PL1\r\n"
		if got := tu.MustReadFile(t, path); got != want {
			t.Errorf("unexpected content:\n got %q\nwant %q", got, want)
		}

		ids, err := log.ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ids.Has("a") {
			t.Error("expected appended ID to be readable")
		}
	})

	t.Run("round trip through ExistingIDs", func(t *testing.T) {
		log := NewItemLog(filepath.Join(t.TempDir(), "out.csv"), nil)
		if err := log.Append([]models.Item{item("a", "A"), item("b", "B", "t")}); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		ids, err := log.ExistingIDs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := strings.Join(ids.Sorted(), ","); got != "a,b" {
			t.Errorf("expected a,b, got %s", got)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		err := NewItemLog(filepath.Join(blocker, "out.csv"), nil).Append([]models.Item{item("a", "A")})
		if !errors.Is(err, shared.ErrLogWrite) {
			t.Errorf("expected ErrLogWrite, got %v", err)
		}
	})
}

func TestItemLogRecords(t *testing.T) {
	content := formatter.BOM + headerLine +
		"A,https://www.youtube.com/watch?v=a,\"x, y\",Talks,a,PL1\r\n" +
		"bad\r\n" +
		"B,https://www.youtube.com/watch?v=b,,Talks,b,PL1\r\n"

	items, err := NewItemLog(writeLog(t, content), nil).Records()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(items))
	}
	if items[0].Title != "A" || strings.Join(items[0].Tags, "|") != "x|y" {
		t.Errorf("unexpected first record %+v", items[0])
	}
	if items[1].ID != "b" || len(items[1].Tags) != 0 {
		t.Errorf("unexpected second record %+v", items[1])
	}
}
