package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"image-watcher/internal/logging"
)

// ListFiles returns the absolute paths of regular files under root accepted
// by match, in lexical order. Symlinks to regular files are listed under
// their own path; symlinked directories are not descended into. Without recursive only the direct children of
// root are listed. Unreadable subdirectories are logged and skipped; an
// unreadable root is an error.
func ListFiles(root string, recursive bool, match func(path string) bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	if !recursive {
		entries, err := os.ReadDir(absRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", absRoot, err)
		}

		var files []string
		for _, entry := range entries {
			path := filepath.Join(absRoot, entry.Name())
			if !isRegular(path, entry) {
				continue
			}
			if match == nil || match(path) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			logging.Warn("Error accessing path %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}
		if match == nil || match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", absRoot, err)
	}
	return files, nil
}

// isRegular reports whether entry is a regular file, resolving symlinks.
// Dangling links are not.
func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		logging.Debug("Skipping unresolvable link %s: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}
