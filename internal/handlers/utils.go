package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"image-watcher/internal/logging"
)

// writeJSON encodes v as JSON with the given status code. Encoding errors
// are logged since the header has already been sent.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeJSONStatus writes a status response with a human readable message.
func writeJSONStatus(w http.ResponseWriter, statusCode int, status, message string) {
	writeJSON(w, statusCode, map[string]string{
		"status":  status,
		"message": message,
	})
}

// isSubPath reports whether child is parent or lies below it.
func isSubPath(parent, child string) bool {
	parent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	child, err = filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
