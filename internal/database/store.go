package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio"

	"image-watcher/internal/logging"
	"image-watcher/internal/metrics"
)

// Store manages the index file of one watched root.
type Store struct {
	mu       sync.RWMutex
	root     string
	filename string
	cache    Index
	loaded   bool
}

// New creates a Store for the index file named filename inside root.
// An empty filename selects DefaultFilename. Nothing is read until Load.
func New(root, filename string) *Store {
	if filename == "" {
		filename = DefaultFilename
	}
	return &Store{
		root:     filepath.Clean(root),
		filename: filename,
	}
}

// Root returns the watched root directory.
func (s *Store) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Path returns the full path of the index file.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filepath.Join(s.root, s.filename)
}

// SetRoot switches the store to another watched root and drops the cache.
func (s *Store) SetRoot(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = filepath.Clean(root)
	s.cache = nil
	s.loaded = false
	logging.Debug("Index store root changed to %s", s.root)
}

// Load returns a copy of the current index. The file is read on first use
// and cached afterwards. A missing file yields an empty index, and so does
// a corrupt one after the corruption has been logged.
func (s *Store) Load() Index {
	s.mu.RLock()
	if s.loaded {
		idx := s.cache.Clone()
		s.mu.RUnlock()
		metrics.StoreLoadsTotal.WithLabelValues("cache").Inc()
		return idx
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if s.loaded {
		metrics.StoreLoadsTotal.WithLabelValues("cache").Inc()
		return s.cache.Clone()
	}

	path := filepath.Join(s.root, s.filename)
	idx, err := ReadIndexFile(path)
	switch {
	case err == nil:
		metrics.StoreLoadsTotal.WithLabelValues("disk").Inc()
		logging.Debug("Loaded %d records from %s", len(idx), path)
	case errors.Is(err, fs.ErrNotExist):
		metrics.StoreLoadsTotal.WithLabelValues("missing").Inc()
		idx = Index{}
	default:
		var corrupt *PersistenceCorruptError
		if errors.As(err, &corrupt) {
			metrics.StoreLoadsTotal.WithLabelValues("corrupt").Inc()
		}
		logging.Warn("Starting with an empty index: %v", err)
		idx = Index{}
	}

	s.cache = idx
	s.loaded = true
	metrics.StoreRecords.Set(float64(len(idx)))
	return idx.Clone()
}

// Save writes idx as the new index file and, once the file is in place,
// makes it the cached index. On failure the previous file and cache remain.
func (s *Store) Save(idx Index) error {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, s.filename)

	data, err := json.MarshalIndent(idx, "", "    ")
	if err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		return &IOWriteError{Path: path, Op: "encode", Err: err}
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		metrics.StoreSavesTotal.WithLabelValues("error").Inc()
		if diagErr := diagnoseIndexPermissions(path); diagErr != nil {
			logging.Warn("Index permission diagnostics: %v", diagErr)
		}
		return &IOWriteError{Path: path, Op: "write", Err: err}
	}

	s.cache = idx.Clone()
	s.loaded = true

	metrics.StoreSavesTotal.WithLabelValues("success").Inc()
	metrics.StoreSaveDuration.Observe(time.Since(start).Seconds())
	metrics.StoreRecords.Set(float64(len(idx)))
	metrics.StoreSizeBytes.Set(float64(len(data)))
	logging.Debug("Saved %d records to %s (%d bytes)", len(idx), path, len(data))
	return nil
}

// Delete removes the index file and empties the cache. A file that is
// already gone is not an error.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, s.filename)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOWriteError{Path: path, Op: "remove", Err: err}
	}

	s.cache = Index{}
	s.loaded = true
	metrics.StoreRecords.Set(0)
	metrics.StoreSizeBytes.Set(0)
	logging.Info("Deleted index file %s", path)
	return nil
}

// ReadIndexFile parses the index file at path. A missing file returns an
// error matching fs.ErrNotExist; unparsable content returns a
// *PersistenceCorruptError. Records without metadata get an empty map and
// records without a path take their key.
func ReadIndexFile(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &PersistenceCorruptError{Path: path, Err: err}
	}
	if idx == nil {
		return nil, &PersistenceCorruptError{Path: path, Err: errors.New("index is not a JSON object")}
	}

	for key, rec := range idx {
		if rec == nil {
			delete(idx, key)
			continue
		}
		if rec.Path == "" {
			rec.Path = key
		}
		if rec.Metadata == nil {
			rec.Metadata = map[string]string{}
		}
	}
	return idx, nil
}

// diagnoseIndexPermissions logs what it can find out about why the index
// file at path could not be written.
func diagnoseIndexPermissions(path string) error {
	dir := filepath.Dir(path)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat index directory: %w", err)
	}
	logging.Debug("Index directory: %s (mode: %v)", dir, dirInfo.Mode())

	if !dirInfo.IsDir() {
		return fmt.Errorf("index directory %s is not a directory", dir)
	}

	if info, err := os.Stat(path); err == nil {
		logging.Debug("Index file exists: %s (mode: %v, size: %d bytes)", path, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("Index file is read-only! Mode: %v", info.Mode())
		}
	}

	if dirInfo.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("index directory %s is not writable (mode: %v)", dir, dirInfo.Mode())
	}
	return nil
}
