package handlers

import (
	"net/http"
	"runtime"
	"time"

	"image-watcher/internal/indexer"
	"image-watcher/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string            `json:"status"`
	Ready         bool              `json:"ready"`
	Version       string            `json:"version"`
	Uptime        string            `json:"uptime"`
	Syncing       bool              `json:"syncing"`
	Root          string            `json:"root"`
	Records       int               `json:"records"`
	LastSynced    string            `json:"lastSynced,omitempty"`
	LastSyncError string            `json:"lastSyncError,omitempty"`
	Progress      *indexer.Progress `json:"progress,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	status := h.indexer.GetHealthStatus()

	response := HealthResponse{
		Ready:         status.Ready,
		Version:       startup.Version,
		Uptime:        status.Uptime,
		Syncing:       status.Syncing,
		Root:          status.Root,
		Records:       len(h.store.Load()),
		LastSyncError: status.LastSyncError,
		Progress:      status.Progress,
		GoVersion:     runtime.Version(),
		NumGoroutine:  runtime.NumGoroutine(),
	}

	switch {
	case status.LastSyncError != "":
		response.Status = statusDegraded
	case status.Ready:
		response.Status = statusHealthy
	default:
		response.Status = statusStarting
	}

	if !status.LastSynced.IsZero() {
		response.LastSynced = status.LastSynced.Format(time.RFC3339)
	}

	// 503 only until the first pass completes
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

// LivenessCheck always returns 200 while the server is running
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessCheck returns 200 once the initial sync has completed
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.GetHealthStatus().Ready {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}
