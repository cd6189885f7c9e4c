// Package tasks implements the playlist sync pipeline.
//
// # Engine
//
// [Engine.Run] performs one sync, in order:
//
//  1. Read the IDs already recorded in the [ItemStore]
//  2. List the playlist through the [services.Catalog] and keep members whose ID is not recorded,
//     in listing order, first occurrence wins
//  3. Stop if nothing is new; the store is not touched
//  4. Look up tags for the new IDs
//  5. Append one row per new item, unless the run is a dry run
//
// Nothing is written unless every fetch succeeded. The output log is the only deduplication state:
// running twice with no playlist change appends nothing the second time.
//
// # Progress
//
// Each step emits a [ProgressUpdate] on the optional progress channel. Sends never block; a full channel drops
// the update.
//
// # Run History
//
// When a [RunRecorder] is attached, every run is journaled after it finishes, successful or not.
// Journal failures are logged and do not fail the sync.
package tasks
