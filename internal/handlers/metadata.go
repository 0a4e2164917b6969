package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"image-watcher/internal/logging"
	"image-watcher/internal/media"
	"image-watcher/internal/mediatypes"
)

// MetadataResponse is the result of GET /api/metadata.
type MetadataResponse struct {
	Path     string            `json:"path"`
	Stats    *media.FileStats  `json:"stats"`
	Size     string            `json:"size"`
	Metadata map[string]string `json:"metadata"`
	Keys     []string          `json:"keys"`
	Text     string            `json:"text"`
}

// GetMetadata returns stats and text metadata for ?path=, which may be
// absolute or relative to the watched root but must lie inside it.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("path")
	if requested == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	root := h.store.Root()
	fullPath := requested
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(root, fullPath)
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(root, absPath) {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}
	if !mediatypes.IsSupportedPath(absPath) {
		writeJSONError(w, "Unsupported image type", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to read image", http.StatusInternalServerError)
		return
	}

	key := fmt.Sprintf("%s|%d|%d", absPath, info.ModTime().UnixNano(), info.Size())
	if cached, ok := h.metaCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	resp, err := buildMetadataResponse(absPath)
	if err != nil {
		logging.Warn("Failed to read metadata for %s: %v", absPath, err)
		writeJSONError(w, "Unreadable image", http.StatusUnprocessableEntity)
		return
	}

	h.metaCache.Add(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func buildMetadataResponse(path string) (*MetadataResponse, error) {
	stats, err := media.Stats(path)
	if err != nil {
		return nil, err
	}

	meta := map[string]string{}
	if mediatypes.HasTextChunks(path) {
		// Partial metadata is still worth returning.
		meta, err = media.ExtractTextMetadata(path)
		if err != nil {
			logging.Debug("Partial text metadata for %s: %v", path, err)
		}
	}

	return &MetadataResponse{
		Path:     path,
		Stats:    stats,
		Size:     stats.Dimensions(),
		Metadata: meta,
		Keys:     media.OrderedKeys(meta),
		Text:     media.FormatMetadata(meta),
	}, nil
}
