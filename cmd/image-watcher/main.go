package main

import (
	"os"

	"image-watcher/internal/metrics"
)

func main() {
	metrics.InitializeMetrics()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
