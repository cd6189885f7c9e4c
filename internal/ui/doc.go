// Package ui implements an interactive terminal interface for a sync run using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [SyncView] : spinner and current phase while the engine runs
//  2. [ResultView] : counts, output path and a scrollable list of the appended items
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the sync engine, which runs in its own goroutine.
//
// Keyboard bindings are vim-style (j/k, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
