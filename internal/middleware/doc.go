// Package middleware provides HTTP middleware for the image watcher API.
//
// It includes:
//   - Structured request logging with optional health check filtering
//   - Prometheus request metrics labelled by route template
//   - gzip compression of JSON responses
package middleware
