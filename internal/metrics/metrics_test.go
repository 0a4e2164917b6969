package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"StoreLoadsTotal", StoreLoadsTotal},
		{"StoreSavesTotal", StoreSavesTotal},
		{"StoreSaveDuration", StoreSaveDuration},
		{"StoreRecords", StoreRecords},
		{"StoreSizeBytes", StoreSizeBytes},
		{"IndexerRunsTotal", IndexerRunsTotal},
		{"IndexerFilesProcessed", IndexerFilesProcessed},
		{"IndexerOrphansRemoved", IndexerOrphansRemoved},
		{"IndexerIsRunning", IndexerIsRunning},
		{"ExtractDuration", ExtractDuration},
		{"ExtractFailuresTotal", ExtractFailuresTotal},
		{"TextChunksDecoded", TextChunksDecoded},
		{"QueryEvaluationsTotal", QueryEvaluationsTotal},
		{"QueryDuration", QueryDuration},
		{"QueryResults", QueryResults},
		{"WatcherEventsTotal", WatcherEventsTotal},
		{"WatcherTriggersTotal", WatcherTriggersTotal},
		{"FilesystemRetryDuration", FilesystemRetryDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	if got := testutil.CollectAndCount(StoreLoadsTotal); got != 4 {
		t.Errorf("StoreLoadsTotal series = %d, want 4", got)
	}
	if got := testutil.CollectAndCount(QueryEvaluationsTotal); got != 3 {
		t.Errorf("QueryEvaluationsTotal series = %d, want 3", got)
	}
	if got := testutil.CollectAndCount(IndexerFilesProcessed); got != 3 {
		t.Errorf("IndexerFilesProcessed series = %d, want 3", got)
	}
}

func TestMetricNamesArePrefixed(t *testing.T) {
	InitializeMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := 0
	for _, mf := range families {
		name := mf.GetName()
		if strings.HasPrefix(name, "go_") || strings.HasPrefix(name, "process_") || strings.HasPrefix(name, "promhttp_") {
			continue
		}
		found++
		if !strings.HasPrefix(name, "image_watcher_") {
			t.Errorf("metric %s lacks image_watcher_ prefix", name)
		}
	}
	if found == 0 {
		t.Error("no image_watcher metrics gathered")
	}
}
