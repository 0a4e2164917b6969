package indexer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"image-watcher/internal/database"
	"image-watcher/internal/filesystem"
	"image-watcher/internal/logging"
	"image-watcher/internal/media"
	"image-watcher/internal/mediatypes"
	"image-watcher/internal/metrics"
)

// ErrSyncInProgress is returned by Sync when another pass is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Progress messages reported outside the per-file loop.
const (
	StatusNoImages = "No images found, database deleted"
	StatusCleanup  = "Cleaning up database..."
)

// ExtractFunc builds the record for one image file.
type ExtractFunc func(path string) (*database.ImageRecord, error)

// Config holds the defaults used by Resync and the extraction hook.
type Config struct {
	// Recursive selects recursive listing for Resync.
	Recursive bool
	// Progress receives Resync reports. Nil discards them.
	Progress ProgressSink
	// Extract overrides media.ExtractMetadata, mainly for tests.
	Extract ExtractFunc
	// Retry controls stat retries on network filesystems.
	Retry filesystem.RetryConfig
}

// SkippedFile records a candidate that could not be indexed in a pass.
type SkippedFile struct {
	Path string
	Err  error
}

// SyncResult describes one completed pass.
type SyncResult struct {
	Index     database.Index
	Extracted int
	Unchanged int
	Removed   int
	Skipped   []SkippedFile
	Deleted   bool
	Duration  time.Duration
}

// Indexer runs sync passes against one Store.
type Indexer struct {
	store  *database.Store
	config Config

	// Passes started by Resync run on ctx, which lives until Close.
	ctx    context.Context
	cancel context.CancelFunc

	resyncMu      sync.Mutex
	resyncRunning bool
	requested     uint64
	covered       uint64
	lastResult    *SyncResult
	lastErr       error
	passDone      chan struct{}

	indexMu             sync.Mutex
	isSyncing           bool
	lastSyncTime        time.Time
	lastSyncError       error
	initialSyncComplete bool
	startTime           time.Time

	progress atomic.Value

	onSyncComplete func(*SyncResult)
}

// New creates an Indexer that persists into store.
func New(store *database.Store, config Config) *Indexer {
	if config.Extract == nil {
		config.Extract = media.ExtractMetadata
	}
	if config.Progress == nil {
		config.Progress = NopProgress
	}
	if config.Retry.MaxRetries == 0 && config.Retry.InitialBackoff == 0 {
		config.Retry = filesystem.DefaultRetryConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	idx := &Indexer{
		store:     store,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
		passDone:  make(chan struct{}),
		startTime: time.Now(),
	}
	idx.progress.Store(Progress{})
	return idx
}

// Store returns the store the indexer writes to.
func (idx *Indexer) Store() *database.Store {
	return idx.store
}

// SetOnSyncComplete sets a callback invoked after every successful pass.
func (idx *Indexer) SetOnSyncComplete(callback func(*SyncResult)) {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	idx.onSyncComplete = callback
}

// Sync runs one pass over scope and returns the saved index. If scope is not
// the store's current root, the store is switched to it first.
func (idx *Indexer) Sync(ctx context.Context, scope string, recursive bool, progress ProgressSink) (database.Index, error) {
	result, err := idx.Run(ctx, scope, recursive, progress)
	if err != nil {
		return nil, err
	}
	return result.Index, nil
}

// Resync requests a pass over the store's root with the configured
// defaults and waits for a pass that started after the request. Requests
// arriving while a pass runs are merged into one trailing pass, so a change
// made behind the running pass is always picked up. The pass itself runs
// until Close; ctx only bounds how long the caller waits.
func (idx *Indexer) Resync(ctx context.Context) (*SyncResult, error) {
	idx.resyncMu.Lock()
	idx.requested++
	want := idx.requested
	if idx.resyncRunning {
		logging.Debug("Sync running, queued a follow-up pass")
	} else {
		idx.resyncRunning = true
		go idx.resyncLoop()
	}

	for idx.covered < want {
		done := idx.passDone
		idx.resyncMu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		idx.resyncMu.Lock()
	}

	result, err := idx.lastResult, idx.lastErr
	idx.resyncMu.Unlock()
	return result, err
}

// resyncLoop runs passes until every request made so far is covered.
func (idx *Indexer) resyncLoop() {
	for {
		idx.resyncMu.Lock()
		if idx.covered >= idx.requested {
			idx.resyncRunning = false
			idx.resyncMu.Unlock()
			return
		}
		gen := idx.requested
		idx.resyncMu.Unlock()

		result, err := idx.Run(idx.ctx, idx.store.Root(), idx.config.Recursive, idx.config.Progress)

		idx.resyncMu.Lock()
		idx.covered = gen
		idx.lastResult, idx.lastErr = result, err
		close(idx.passDone)
		idx.passDone = make(chan struct{})
		idx.resyncMu.Unlock()
	}
}

// Close aborts a running Resync pass. Later Resync calls fail with
// context.Canceled.
func (idx *Indexer) Close() {
	idx.cancel()
}

// Run is Sync with the full pass summary.
func (idx *Indexer) Run(ctx context.Context, scope string, recursive bool, progress ProgressSink) (*SyncResult, error) {
	if !idx.tryStartSyncing() {
		logging.Info("Sync already in progress, skipping...")
		return nil, ErrSyncInProgress
	}

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	startTime := time.Now()
	if progress == nil {
		progress = NopProgress
	}
	sink := &trackingSink{idx: idx, next: progress, startedAt: startTime}
	idx.progress.Store(Progress{IsSyncing: true, StartedAt: startTime})

	result, err := idx.runPass(ctx, scope, recursive, sink)
	if result != nil {
		result.Duration = time.Since(startTime)
	}
	idx.finishSyncing(result, err)

	if err != nil {
		metrics.IndexerErrors.Inc()
		return nil, err
	}

	metrics.IndexerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.IndexerLastRunDuration.Set(result.Duration.Seconds())
	logging.Info("Sync complete: %d records (%d extracted, %d unchanged, %d removed, %d skipped) in %v",
		len(result.Index), result.Extracted, result.Unchanged, result.Removed, len(result.Skipped), result.Duration)

	if cb := idx.completionCallback(); cb != nil {
		cb(result)
	}
	return result, nil
}

func (idx *Indexer) runPass(ctx context.Context, scope string, recursive bool, progress ProgressSink) (*SyncResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scope %s: %w", scope, err)
	}
	if idx.store.Root() != root {
		logging.Info("Switching index root to %s", root)
		idx.store.SetRoot(root)
	}

	logging.Info("Starting sync of %s (recursive: %v)", root, recursive)
	current := idx.store.Load()

	candidates, err := filesystem.ListFiles(root, recursive, mediatypes.IsSupportedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	if len(candidates) == 0 {
		if err := idx.store.Delete(); err != nil {
			return nil, err
		}
		progress.Update(100, StatusNoImages, "")
		return &SyncResult{Index: database.Index{}, Deleted: true}, nil
	}

	result := &SyncResult{}
	seen := make(map[string]bool, len(candidates))
	total := len(candidates)

	for i, path := range candidates {
		if err := ctx.Err(); err != nil {
			logging.Warn("Sync of %s aborted after %d of %d files: %v", root, i, total, err)
			return nil, err
		}

		seen[path] = true
		n := i + 1
		progress.Update(float64(n)/float64(total)*100, fmt.Sprintf("Processing file %d of %d", n, total), filepath.Base(path))

		idx.processFile(path, current, result)
	}

	progress.Update(100, StatusCleanup, "")
	result.Removed = removeOrphans(current, seen)
	metrics.IndexerOrphansRemoved.Add(float64(result.Removed))

	if err := ctx.Err(); err != nil {
		logging.Warn("Sync of %s aborted before save: %v", root, err)
		return nil, err
	}

	if err := idx.store.Save(current); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	result.Index = current
	return result, nil
}

// processFile brings the record of path up to date inside current.
// Failures keep whatever record path had before.
func (idx *Indexer) processFile(path string, current database.Index, result *SyncResult) {
	info, err := filesystem.StatWithRetry(path, idx.config.Retry)
	if err != nil {
		idx.skip(path, err, result)
		return
	}

	if rec, ok := current[path]; ok && rec.ModifiedTimeStamp == filesystem.Stamp(info.ModTime()) {
		result.Unchanged++
		metrics.IndexerFilesProcessed.WithLabelValues("unchanged").Inc()
		return
	}

	rec, err := idx.config.Extract(path)
	if err != nil {
		idx.skip(path, err, result)
		return
	}

	current[path] = rec
	result.Extracted++
	metrics.IndexerFilesProcessed.WithLabelValues("extracted").Inc()
}

func (idx *Indexer) skip(path string, err error, result *SyncResult) {
	logging.Warn("Skipping %s: %v", path, err)
	result.Skipped = append(result.Skipped, SkippedFile{Path: path, Err: err})
	metrics.IndexerFilesProcessed.WithLabelValues("skipped").Inc()
}

// removeOrphans deletes records whose path was not seen and returns how
// many were removed.
func removeOrphans(current database.Index, seen map[string]bool) int {
	removed := 0
	for path := range current {
		if !seen[path] {
			logging.Debug("Removing orphaned record %s", path)
			delete(current, path)
			removed++
		}
	}
	return removed
}

// tryStartSyncing attempts to start a pass, returns false if one is running.
func (idx *Indexer) tryStartSyncing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isSyncing {
		return false
	}
	idx.isSyncing = true
	return true
}

// finishSyncing marks the pass as complete.
func (idx *Indexer) finishSyncing(result *SyncResult, err error) {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isSyncing = false
	idx.lastSyncError = err
	if err == nil {
		idx.lastSyncTime = time.Now()
		idx.initialSyncComplete = true
	}

	last := idx.getProgress()
	last.IsSyncing = false
	idx.progress.Store(last)
}

func (idx *Indexer) completionCallback() func(*SyncResult) {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.onSyncComplete
}

// getProgress safely retrieves the current Progress.
func (idx *Indexer) getProgress() Progress {
	if progress, ok := idx.progress.Load().(Progress); ok {
		return progress
	}
	return Progress{}
}

// IsSyncing reports whether a pass is running.
func (idx *Indexer) IsSyncing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isSyncing
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready         bool      `json:"ready"`
	Syncing       bool      `json:"syncing"`
	Root          string    `json:"root"`
	StartTime     time.Time `json:"startTime"`
	Uptime        string    `json:"uptime"`
	LastSynced    time.Time `json:"lastSynced,omitempty"`
	LastSyncError string    `json:"lastSyncError,omitempty"`
	Progress      *Progress `json:"progress,omitempty"`
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:      idx.initialSyncComplete,
		Syncing:    idx.isSyncing,
		Root:       idx.store.Root(),
		StartTime:  idx.startTime,
		Uptime:     time.Since(idx.startTime).String(),
		LastSynced: idx.lastSyncTime,
	}

	if idx.isSyncing {
		progress := idx.getProgress()
		status.Progress = &progress
	}
	if idx.lastSyncError != nil {
		status.LastSyncError = idx.lastSyncError.Error()
	}
	return status
}
