// Package indexer keeps the image index of a watched folder in step with the
// files on disk.
//
// A sync pass is incremental:
//   - candidate files are listed (optionally recursively) and filtered to the
//     supported image extensions
//   - a file is (re)extracted only when it is new or its modification time
//     differs from the stamp stored in its record
//   - records of files that disappeared are dropped
//   - the resulting index is saved as a whole, so an aborted pass leaves the
//     previous file untouched
//
// A folder without any candidate images clears the index file entirely.
//
// Only one pass runs at a time per Indexer. Sync rejects overlapping calls
// with ErrSyncInProgress, while Resync folds concurrent triggers (file
// watcher, HTTP API) into a single pass.
package indexer
