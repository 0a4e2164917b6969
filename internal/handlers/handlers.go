package handlers

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"image-watcher/internal/database"
	"image-watcher/internal/indexer"
	"image-watcher/internal/query"
	"image-watcher/internal/startup"
)

// Handlers serves the HTTP API over one indexer and its store.
type Handlers struct {
	indexer       *indexer.Indexer
	store         *database.Store
	engine        *query.Engine
	defaultFields []string
	metaCache     *lru.Cache[string, *MetadataResponse]

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the handlers for idx. config supplies the default filter
// fields and the size of the metadata response cache.
func New(idx *indexer.Indexer, config *startup.Config) (*Handlers, error) {
	cache, err := lru.New[string, *MetadataResponse](config.MetadataCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Handlers{
		indexer:       idx,
		store:         idx.Store(),
		engine:        query.NewEngine(nil),
		defaultFields: append([]string(nil), config.FilterFields...),
		metaCache:     cache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Shutdown cancels syncs started in the background by the API.
func (h *Handlers) Shutdown() {
	h.cancel()
}
