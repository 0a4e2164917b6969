package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_watcher_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Index store metrics
var (
	StoreLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_store_loads_total",
			Help: "Total number of index loads by source (cache, disk, missing, corrupt)",
		},
		[]string{"source"},
	)

	StoreSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_store_saves_total",
			Help: "Total number of index saves by status",
		},
		[]string{"status"},
	)

	StoreSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_watcher_store_save_duration_seconds",
			Help:    "Time spent writing the index file",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	StoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_store_records",
			Help: "Number of records in the last saved or loaded index",
		},
	)

	StoreSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_store_size_bytes",
			Help: "Size of the index file in bytes after the last save",
		},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_indexer_runs_total",
			Help: "Total number of sync passes",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_indexer_last_run_timestamp",
			Help: "Timestamp of the last completed sync pass",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_indexer_last_run_duration_seconds",
			Help: "Duration of the last sync pass in seconds",
		},
	)

	IndexerFilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_indexer_files_processed_total",
			Help: "Files visited by sync, by outcome (extracted, unchanged, skipped)",
		},
		[]string{"outcome"},
	)

	IndexerOrphansRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_indexer_orphans_removed_total",
			Help: "Index entries removed because their file disappeared",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_indexer_errors_total",
			Help: "Total number of failed sync passes",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_indexer_running",
			Help: "Whether a sync pass is currently running (1 = running, 0 = idle)",
		},
	)
)

// Metadata extraction metrics
var (
	ExtractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_watcher_extract_duration_seconds",
			Help:    "Time to build one image record, by format",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"format"},
	)

	ExtractFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_extract_failures_total",
			Help: "Extraction failures by reason (unreadable, chunks)",
		},
		[]string{"reason"},
	)

	TextChunksDecoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_text_chunks_decoded_total",
			Help: "Number of PNG text chunks decoded into metadata",
		},
	)
)

// Query metrics
var (
	QueryEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_query_evaluations_total",
			Help: "Filter evaluations by mode (and, or, inactive)",
		},
		[]string{"mode"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_watcher_query_duration_seconds",
			Help:    "Filter evaluation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_watcher_query_results",
			Help:    "Number of paths returned per filter evaluation",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_watcher_events_total",
			Help: "Filesystem events received by type",
		},
		[]string{"type"},
	)

	WatcherTriggersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_watcher_triggers_total",
			Help: "Debounced sync triggers fired by the watcher",
		},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_watcher_watcher_errors_total",
			Help: "Total number of file watcher errors",
		},
	)

	WatcherWatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_watcher_watcher_watched_directories",
			Help: "Number of directories being watched",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_filesystem_retry_attempts_total",
			Help: "Retry attempts for filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_filesystem_retry_success_total",
			Help: "Filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_filesystem_retry_failures_total",
			Help: "Filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_watcher_filesystem_stale_errors_total",
			Help: "NFS stale file handle errors encountered",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_watcher_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)
