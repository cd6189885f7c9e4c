// Package models defines the domain types shared by the playlist sync pipeline.
//
// The package contains three groups of types:
//
// 1. Output log rows
//   - [Item] : one recorded video (title, watch URL, tags, playlist name, ID, playlist ID)
//   - [IDSet] : the IDs already present in the log, rebuilt from the file on every run
//
// 2. Transient sync state
//   - [ItemRef] : a playlist member returned by the listing call
//   - [Entry] : a newly discovered item, enriched with tags before it is written
//   - [EntrySet] : insertion-ordered map of entries keyed by ID
//
// 3. Run history
//   - [SyncRun] : journal entry for a single invocation, persisted when a history database is configured
package models
