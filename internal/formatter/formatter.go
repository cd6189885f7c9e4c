// package formatter encodes output log rows and renders them as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// BOM is the UTF-8 byte order mark that starts every output log.
const BOM = "\ufeff"

// WatchURLPrefix is prepended to an item ID to build its canonical URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// TagSeparator joins tags in the tags column.
const TagSeparator = ", "

// Column names of the output log, in on-disk order. Readers locate columns by these names.
const (
	ColTitle        = "タイトル"
	ColURL          = "URL"
	ColTags         = "タグ"
	ColPlaylistName = "プレイリスト名"
	ColID           = "ビデオID"
	ColPlaylistID   = "プレイリストID"
)

var header = []string{ColTitle, ColURL, ColTags, ColPlaylistName, ColID, ColPlaylistID}

// Header returns the output log header row.
func Header() []string {
	return append([]string(nil), header...)
}

// WatchURL returns the canonical URL for an item ID.
func WatchURL(id string) string {
	return WatchURLPrefix + id
}

// JoinTags renders tags for the tags column.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// SplitTags parses a tags column. An empty column yields an empty slice.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, TagSeparator)
}

// EncodeRow converts an item to a row in header order.
func EncodeRow(item models.Item) []string {
	url := item.URL
	if url == "" {
		url = WatchURL(item.ID)
	}
	return []string{item.Title, url, JoinTags(item.Tags), item.PlaylistName, item.ID, item.PlaylistID}
}

// HeaderIndex maps column names to their position in a log's header row.
type HeaderIndex map[string]int

// NewHeaderIndex indexes a header row. The ID column is required.
func NewHeaderIndex(row []string) (HeaderIndex, error) {
	idx := make(HeaderIndex, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	if _, ok := idx[ColID]; !ok {
		return nil, fmt.Errorf("%w: header has no %q column", shared.ErrMalformedLog, ColID)
	}
	return idx, nil
}

// Field returns the value of column col in row, if the row is long enough to hold it.
func (h HeaderIndex) Field(row []string, col string) (string, bool) {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// DecodeRow converts a data row back into an item. Rows without an ID value are malformed.
func (h HeaderIndex) DecodeRow(row []string) (models.Item, error) {
	id, ok := h.Field(row, ColID)
	if !ok {
		return models.Item{}, fmt.Errorf("%w: row has %d fields, no %q value", shared.ErrMalformedLog, len(row), ColID)
	}

	item := models.Item{ID: id}
	item.Title, _ = h.Field(row, ColTitle)
	item.URL, _ = h.Field(row, ColURL)
	item.PlaylistName, _ = h.Field(row, ColPlaylistName)
	item.PlaylistID, _ = h.Field(row, ColPlaylistID)
	tags, _ := h.Field(row, ColTags)
	item.Tags = SplitTags(tags)
	return item, nil
}

// NewWriter returns a [csv.Writer] configured like the output log: comma separated with CRLF line endings.
func NewWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// WriteCSV writes items to w. With withHeader set, the BOM and header row are written first,
// which is only correct at the very start of a file.
func WriteCSV(w io.Writer, items []models.Item, withHeader bool) error {
	if withHeader {
		if _, err := io.WriteString(w, BOM); err != nil {
			return fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}

	writer := NewWriter(w)
	if withHeader {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, item := range items {
		if err := writer.Write(EncodeRow(item)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// ExportToCSV renders items as a complete output log document.
func ExportToCSV(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders items as a Markdown list under the given title.
func ExportToMarkdown(title string, items []models.Item) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n\n", len(items)))

	for i, item := range items {
		url := item.URL
		if url == "" {
			url = WatchURL(item.ID)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, item.Title, url))
		if len(item.Tags) > 0 {
			buf.WriteString(fmt.Sprintf(" `%s`", JoinTags(item.Tags)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ExportToText renders items as plain text, one line per item.
func ExportToText(items []models.Item) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(items)))
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, item.Title, item.ID))
		if len(item.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("   tags: %s\n", JoinTags(item.Tags)))
		}
	}

	return buf.Bytes()
}
