// Package repositories implements persistence for the playlist sync tool.
//
// Key Implementations:
//   - [ItemLog] : the append-only CSV output log, which is also the deduplication state
//   - [SyncRunRepository] : optional SQLite journal of sync runs
//
// The output log is read in full on every run. Columns are located by header name, so files written by
// older versions of the tool stay readable as long as the ID column is present.
package repositories
