package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
)

var _ list.Item = itemEntry{}

// itemEntry wraps [models.Item] to implement [list.Item].
type itemEntry struct {
	item models.Item
}

func (i itemEntry) FilterValue() string { return i.item.Title }
func (i itemEntry) Title() string       { return i.item.Title }
func (i itemEntry) Description() string {
	if len(i.item.Tags) == 0 {
		return i.item.ID
	}
	return i.item.ID + " • " + formatter.JoinTags(i.item.Tags)
}

func itemEntries(items []models.Item) []list.Item {
	entries := make([]list.Item, len(items))
	for i, item := range items {
		entries[i] = itemEntry{item: item}
	}
	return entries
}
