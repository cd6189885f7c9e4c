// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/plsync/internal/models"
)

// MockCatalog is a test double for [services.Catalog] serving a fixed playlist.
type MockCatalog struct {
	Refs    []models.ItemRef
	Tags    map[string][]string
	ListErr error
	TagsErr error

	ListCalls   int
	TagRequests [][]string // IDs passed to each GetItemTags call
}

func (m *MockCatalog) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.ItemRef, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.ItemRef(nil), m.Refs...), nil
}

func (m *MockCatalog) GetItemTags(ctx context.Context, ids []string) (map[string][]string, error) {
	m.TagRequests = append(m.TagRequests, append([]string(nil), ids...))
	if m.TagsErr != nil {
		return nil, m.TagsErr
	}

	tags := make(map[string][]string)
	for _, id := range ids {
		if t, ok := m.Tags[id]; ok {
			tags[id] = t
		}
	}
	return tags, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// RequestedIDs flattens every ID passed to GetItemTags.
func (m *MockCatalog) RequestedIDs() []string {
	var ids []string
	for _, req := range m.TagRequests {
		ids = append(ids, req...)
	}
	return ids
}

// MockRecorder collects journaled runs.
type MockRecorder struct {
	Runs []*models.SyncRun
	Err  error
}

func (m *MockRecorder) RecordRun(run *models.SyncRun) error {
	m.Runs = append(m.Runs, run)
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err != nil {
		t.Errorf("Failed to stat %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
