package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"image-watcher/internal/logging"
	"image-watcher/internal/metrics"
)

// DefaultDebounce is the quiet period before a trigger fires.
const DefaultDebounce = time.Second

// Options configures a Watcher.
type Options struct {
	Root      string
	Recursive bool
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// IgnoreNames lists base names whose events never trigger, typically
	// the index file.
	IgnoreNames []string
}

// Watcher turns filesystem events under a root into debounced triggers.
type Watcher struct {
	opts      Options
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	ignore    map[string]bool
	watched   int
}

// New starts watching opts.Root. trigger runs on its own goroutine after each
// debounced burst of events.
func New(opts Options, trigger func()) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		opts:   opts,
		fsw:    fsw,
		ignore: make(map[string]bool, len(opts.IgnoreNames)),
		debouncer: NewDebouncer(opts.Debounce, func() {
			metrics.WatcherTriggersTotal.Inc()
			logging.Debug("Watcher quiet for %v, triggering sync", opts.Debounce)
			trigger()
		}),
	}
	for _, name := range opts.IgnoreNames {
		w.ignore[name] = true
	}

	if err := fsw.Add(opts.Root); err != nil {
		_ = fsw.Close()
		metrics.WatcherErrors.Inc()
		return nil, fmt.Errorf("failed to watch %s: %w", opts.Root, err)
	}
	w.watched = 1
	if opts.Recursive {
		w.addSubdirectories(opts.Root)
	}

	metrics.WatcherWatchedDirectories.Set(float64(w.watched))
	logging.Info("Watching %s (%d directories, debounce %v)", opts.Root, w.watched, opts.Debounce)
	return w, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	metrics.WatcherWatchedDirectories.Set(0)
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	eventType := getEventType(event.Op)
	metrics.WatcherEventsTotal.WithLabelValues(eventType).Inc()

	if !w.relevant(event) {
		return
	}
	logging.Debug("Watcher event: %s %s", eventType, event.Name)

	if w.opts.Recursive && event.Op&fsnotify.Create != 0 {
		w.handleCreateEvent(event)
	}
	w.debouncer.Touch()
}

// relevant reports whether event should lead to a sync.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return !w.ignore[name]
}

// handleCreateEvent adds newly created directories to the watcher.
func (w *Watcher) handleCreateEvent(event fsnotify.Event) {
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(event.Name); err != nil {
		logging.Warn("failed to add new directory to watcher %s: %v", event.Name, err)
		metrics.WatcherErrors.Inc()
		return
	}
	w.watched++
	w.addSubdirectories(event.Name)
	metrics.WatcherWatchedDirectories.Set(float64(w.watched))
	logging.Debug("Added new directory to watcher: %s", event.Name)
}

// addSubdirectories watches every non-hidden directory below root.
func (w *Watcher) addSubdirectories(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			logging.Warn("failed to add path to watcher %s: %v", path, addErr)
			metrics.WatcherErrors.Inc()
			return nil
		}
		w.watched++
		return nil
	})
	if err != nil {
		logging.Error("failed to walk %s for watcher: %v", root, err)
		metrics.WatcherErrors.Inc()
	}
}

// getEventType returns a string representation of the fsnotify operation
func getEventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
