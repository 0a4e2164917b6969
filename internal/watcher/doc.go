// Package watcher triggers a resync when the watched folder changes.
//
// Filesystem events from fsnotify are debounced: a burst of events (a file
// being copied in, an editor saving) results in one trigger once the folder
// has been quiet for the debounce window. Events on the index file itself
// and on hidden files are ignored, which also covers the temporary files
// written while the index is saved. In recursive mode newly created
// directories are added to the watch list.
package watcher
