package handlers

import (
	"net/http"

	"image-watcher/internal/query"
)

// FilterResponse is the result of GET /api/filter.
type FilterResponse struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
	Active bool     `json:"active"`
	Count  int      `json:"count"`
	Paths  []string `json:"paths"`
}

// Filter evaluates ?q= against the index over ?fields= (comma separated,
// defaulting to the configured field set) and returns matching paths,
// newest first.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("q")

	fields := h.defaultFields
	if list := r.URL.Query().Get("fields"); list != "" {
		fields = query.ParseFields(list)
	}

	paths := h.engine.Evaluate(filter, h.store.Load(), fields)
	if paths == nil {
		paths = []string{}
	}

	writeJSON(w, http.StatusOK, FilterResponse{
		Query:  filter,
		Fields: fields,
		Active: query.Parse(filter, fields).Active(),
		Count:  len(paths),
		Paths:  paths,
	})
}
