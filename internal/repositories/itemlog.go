package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// ItemLog is the append-only CSV output log.
//
// The file is the only record of which items have been synced: every run rebuilds its [models.IDSet] from it.
type ItemLog struct {
	path   string
	logger *log.Logger
}

// NewItemLog creates an ItemLog for the file at path. The file is not opened until it is read or appended to.
func NewItemLog(path string, logger *log.Logger) *ItemLog {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &ItemLog{path: path, logger: logger}
}

// Path returns the location of the log file.
func (l *ItemLog) Path() string {
	return l.path
}

// needsHeader reports whether the log is missing or holds no rows yet. A log holding only a BOM is
// truncated before the header is written.
func (l *ItemLog) needsHeader() (withHeader, truncate bool, err error) {
	info, err := os.Stat(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true, false, nil
	case err != nil:
		return false, false, fmt.Errorf("failed to stat output log: %w", err)
	case info.Size() == 0:
		return true, false, nil
	case info.Size() > int64(len(formatter.BOM)):
		return false, false, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return false, false, fmt.Errorf("failed to read output log: %w", err)
	}
	if string(data) == formatter.BOM {
		return true, true, nil
	}
	return false, false, nil
}

// ExistingIDs returns the IDs already recorded in the log.
//
// A missing, empty or header-only file yields an empty set. Rows too short to hold the ID column are skipped
// with a warning. A header without the ID column is an error.
func (l *ItemLog) ExistingIDs() (models.IDSet, error) {
	ids := models.NewIDSet()
	err := l.scan(func(idx formatter.HeaderIndex, row []string) {
		if id, ok := idx.Field(row, formatter.ColID); ok {
			ids.Add(id)
		} else {
			l.logger.Warn("skipping malformed row", "path", l.path, "fields", len(row))
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Records decodes every well-formed row of the log, in file order.
func (l *ItemLog) Records() ([]models.Item, error) {
	items := []models.Item{}
	err := l.scan(func(idx formatter.HeaderIndex, row []string) {
		item, err := idx.DecodeRow(row)
		if err != nil {
			l.logger.Warn("skipping malformed row", "path", l.path, "error", err)
			return
		}
		items = append(items, item)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Append writes items to the end of the log.
//
// The BOM and header are written only when the log is missing or holds no rows. Appending zero items does not touch
// the file at all.
func (l *ItemLog) Append(items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	withHeader, truncate, err := l.needsHeader()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLogWrite, err)
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create output directory: %v", shared.ErrLogWrite, err)
		}
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(l.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLogWrite, err)
	}

	if err := formatter.WriteCSV(f, items, withHeader); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", shared.ErrLogWrite, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLogWrite, err)
	}

	l.logger.Debug("appended rows", "path", l.path, "count", len(items), "header", withHeader)
	return nil
}

// scan reads the header and calls fn for each non-empty data row.
func (l *ItemLog) scan(fn func(idx formatter.HeaderIndex, row []string)) error {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open output log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	head, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if isBOMOnly(head) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read header: %v", shared.ErrMalformedLog, err)
	}

	idx, err := formatter.NewHeaderIndex(head)
	if err != nil {
		return err
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			l.logger.Warn("skipping unparseable row", "path", l.path, "line", perr.StartLine, "error", perr.Err)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read output log: %w", err)
		}

		if isBlank(row) {
			continue
		}
		fn(idx, row)
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func isBOMOnly(row []string) bool {
	return len(row) == 1 && strings.TrimSpace(strings.TrimPrefix(row[0], formatter.BOM)) == ""
}
