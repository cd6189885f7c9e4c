// package models defines the data model for the playlist sync tool
package models

import (
	"sort"
)

// Item is one row of the output log.
type Item struct {
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Tags         []string `json:"tags"`
	PlaylistName string   `json:"playlist_name"`
	ID           string   `json:"id"`
	PlaylistID   string   `json:"playlist_id"`
}

// ItemRef is a playlist member as returned by the listing call.
type ItemRef struct {
	ID    string
	Title string
}

// Entry is a newly discovered item being enriched during a sync.
type Entry struct {
	ID    string
	Title string
	Tags  []string
}

// IDSet is the set of item IDs already recorded in an output log.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add records id.
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Has reports whether id is recorded.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of recorded IDs.
func (s IDSet) Len() int { return len(s) }

// Sorted returns the IDs in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EntrySet is an insertion-ordered mapping from item ID to [Entry].
//
// The zero value is ready to use.
type EntrySet struct {
	order   []string
	entries map[string]*Entry
}

// Add inserts e unless an entry with the same ID is already present.
// Reports whether the entry was added.
func (s *EntrySet) Add(e *Entry) bool {
	if s.entries == nil {
		s.entries = make(map[string]*Entry)
	}
	if _, ok := s.entries[e.ID]; ok {
		return false
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	s.entries[e.ID] = e
	s.order = append(s.order, e.ID)
	return true
}

// Get returns the entry for id, or nil.
func (s *EntrySet) Get(id string) *Entry {
	return s.entries[id]
}

// SetTags attaches tags to the entry for id. Reports whether the entry exists.
func (s *EntrySet) SetTags(id string, tags []string) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.Tags = append([]string{}, tags...)
	return true
}

// Len returns the number of entries.
func (s *EntrySet) Len() int {
	return len(s.order)
}

// IDs returns the entry IDs in discovery order.
func (s *EntrySet) IDs() []string {
	return append([]string(nil), s.order...)
}

// Entries returns the entries in discovery order.
func (s *EntrySet) Entries() []*Entry {
	entries := make([]*Entry, len(s.order))
	for i, id := range s.order {
		entries[i] = s.entries[id]
	}
	return entries
}

// Items converts the entries to output rows for the given playlist, in discovery order.
//
// urlFor derives the canonical URL from an item ID.
func (s *EntrySet) Items(playlistID, playlistName string, urlFor func(id string) string) []Item {
	items := make([]Item, 0, len(s.order))
	for _, e := range s.Entries() {
		items = append(items, Item{
			Title:        e.Title,
			URL:          urlFor(e.ID),
			Tags:         append([]string{}, e.Tags...),
			PlaylistName: playlistName,
			ID:           e.ID,
			PlaylistID:   playlistID,
		})
	}
	return items
}
