// Package handlers provides the HTTP API of the image watcher.
//
// It includes handlers for:
//   - Filtering the index with a query over metadata fields
//   - Reading the metadata and stats of a single image
//   - Triggering a sync of the watched folder
//   - Dumping the current index
//   - Health checks, version and Prometheus metrics
package handlers
