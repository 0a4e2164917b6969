// Package database persists the image index for a watched folder.
//
// The index is a single JSON document stored inside the watched root
// (IW_database.json by default) that maps each absolute image path to its
// ImageRecord. A Store owns one such document:
//   - Load returns a cached snapshot, reading the file on first access
//   - Save replaces the file atomically and then the cache
//   - Delete removes the file and empties the cache
//   - SetRoot points the store at another folder and drops the cache
//
// Every Index handed out by the Store is a private copy, so callers may
// mutate it freely without affecting concurrent readers.
package database
