package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, source := range []string{"cache", "disk", "missing", "corrupt"} {
		StoreLoadsTotal.WithLabelValues(source)
	}
	for _, status := range []string{"success", "error"} {
		StoreSavesTotal.WithLabelValues(status)
	}

	for _, outcome := range []string{"extracted", "unchanged", "skipped"} {
		IndexerFilesProcessed.WithLabelValues(outcome)
	}

	for _, format := range []string{"PNG", "JPEG", "GIF", "BMP", "WEBP", "TIFF", "unknown"} {
		ExtractDuration.WithLabelValues(format)
	}
	for _, reason := range []string{"unreadable", "chunks"} {
		ExtractFailuresTotal.WithLabelValues(reason)
	}

	for _, mode := range []string{"and", "or", "inactive"} {
		QueryEvaluationsTotal.WithLabelValues(mode)
	}

	for _, op := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(op)
	}

	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}
