package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"image-watcher/internal/indexer"
	"image-watcher/internal/logging"
)

// SyncResponse summarizes a pass run by POST /api/sync?wait=true.
type SyncResponse struct {
	Status    string   `json:"status"`
	Records   int      `json:"records"`
	Extracted int      `json:"extracted"`
	Unchanged int      `json:"unchanged"`
	Removed   int      `json:"removed"`
	Skipped   []string `json:"skipped"`
	Deleted   bool     `json:"deleted"`
	Duration  string   `json:"duration"`
}

// TriggerSync starts a sync of the watched root. By default the pass runs
// in the background; ?wait=true runs it within the request. A request made
// while a pass runs queues one follow-up pass.
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if wait {
		h.syncAndWait(w, r)
		return
	}

	running := h.indexer.IsSyncing()
	go func() {
		_, err := h.indexer.Resync(h.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Background sync failed: %v", err)
		}
	}()

	if running {
		writeJSONStatus(w, http.StatusAccepted, "queued", "Sync queued after the running one")
		return
	}
	writeJSONStatus(w, http.StatusAccepted, "started", "Sync started")
}

func (h *Handlers) syncAndWait(w http.ResponseWriter, r *http.Request) {
	// The pass outlives a disconnected client; only the wait is cancelled.
	result, err := h.indexer.Resync(r.Context())
	if errors.Is(err, context.Canceled) {
		logging.Debug("Client stopped waiting for sync: %v", err)
		return
	}
	if errors.Is(err, indexer.ErrSyncInProgress) {
		writeJSONStatus(w, http.StatusConflict, "already_running", "Sync is already in progress")
		return
	}
	if err != nil {
		logging.Error("Sync failed: %v", err)
		writeJSONError(w, "Sync failed", http.StatusInternalServerError)
		return
	}

	skipped := make([]string, 0, len(result.Skipped))
	for _, s := range result.Skipped {
		skipped = append(skipped, s.Path)
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Status:    "completed",
		Records:   len(result.Index),
		Extracted: result.Extracted,
		Unchanged: result.Unchanged,
		Removed:   result.Removed,
		Skipped:   skipped,
		Deleted:   result.Deleted,
		Duration:  result.Duration.String(),
	})
}

// GetIndex returns the current index as a path to record object.
func (h *Handlers) GetIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Load())
}
