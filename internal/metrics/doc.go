// Package metrics provides Prometheus instrumentation for the image watcher.
//
// All metrics are prefixed with "image_watcher_" and registered on the
// default registry through promauto, so importing the package is enough to
// have them exported by promhttp.Handler().
//
// # Metric Categories
//
//   - HTTP: request counts, durations and in-flight requests of the API server
//   - Store: index loads by source, saves by status, record count, file size
//   - Indexer: sync passes, per-file outcomes, orphans removed, running flag
//   - Extraction: per-format extraction time, failures, text chunks decoded
//   - Query: evaluations by mode, evaluation time, result sizes
//   - Watcher: filesystem events, debounced triggers, watched directories
//   - Filesystem: NFS stale handle retries
//
// Call InitializeMetrics once at startup so every labelled series exists
// before the first scrape.
package metrics
