// Package startup handles configuration loading and startup/shutdown
// logging for the image watcher.
//
// # Configuration
//
// [LoadConfig] starts from [DefaultConfig], merges an optional YAML file and
// then applies environment variables. Command line flags are applied by the
// caller afterwards, followed by [Config.Validate]. The following
// environment variables are supported:
//
//   - WATCH_DIR: Folder to index and watch (default: current directory)
//   - RECURSIVE: Include subfolders (default: false)
//   - DATABASE_FILE: Index file name inside the watched folder (default: IW_database.json)
//   - PORT: HTTP server port for serve (default: 8080)
//   - METRICS_ENABLED: Expose /metrics (default: true)
//   - DEBOUNCE: Quiet period before a live resync as Go duration (default: 1s)
//   - FILTER_FIELDS: Comma separated default filter fields, or ALL (default: ALL)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//   - METADATA_CACHE_SIZE: Entries kept by the metadata endpoint cache (default: 512)
//
// A YAML file uses the lower-case names of the same settings:
//
//	watch_dir: /srv/outputs
//	recursive: true
//	debounce: 2s
//	filter_fields: [Positive Prompt, Steps, Model]
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogConfig]: Banner, system information and the effective configuration
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
