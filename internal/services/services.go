// package services defines the Catalog interface for video hosting APIs
package services

import (
	"context"

	"github.com/desertthunder/plsync/internal/models"
)

// Catalog is a read-only view of a video hosting API: it can list a playlist and look up item tags.
type Catalog interface {
	// ListPlaylistItems returns every member of a playlist in listing order, following pagination to the end.
	// Members that do not reference a video are skipped.
	ListPlaylistItems(ctx context.Context, playlistID string) ([]models.ItemRef, error)

	// GetItemTags looks up tags for the given IDs. IDs without tags are absent from the result.
	GetItemTags(ctx context.Context, ids []string) (map[string][]string, error)

	// Name returns the name of the catalog (e.g., "YouTube")
	Name() string
}

// Chunk partitions ids into consecutive slices of at most size elements, preserving order.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
