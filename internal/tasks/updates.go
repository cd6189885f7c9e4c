package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadExisting Phase = iota
	ListPlaylist
	FetchTags
	WriteLog
	Complete
)

func (p Phase) String() string {
	switch p {
	case LoadExisting:
		return "load_existing"
	case ListPlaylist:
		return "list_playlist"
	case FetchTags:
		return "fetch_tags"
	case WriteLog:
		return "write_log"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func loadExistingUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadExisting,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading existing records from %s...", path),
	}
}

func listPlaylistUpdate(playlistID string, existing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListPlaylist,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Listing playlist %s (%d already recorded)...", playlistID, existing),
	}
}

func listedUpdate(listed, fresh int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListPlaylist,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Found %d items, %d new", listed, fresh),
		Data:    fresh,
	}
}

func fetchTagsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTags,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tags for %d new items...", count),
	}
}

func writeLogUpdate(count int, dryRun bool) ProgressUpdate {
	msg := fmt.Sprintf("Appending %d rows...", count)
	if dryRun {
		msg = fmt.Sprintf("Dry run: %d rows would be appended", count)
	}
	return ProgressUpdate{
		Phase:   WriteLog,
		Step:    1,
		Total:   1,
		Message: msg,
	}
}

func completeUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Sync complete: %d new items", result.NewCount),
		Data:    result,
	}
}
