package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"image-watcher/internal/indexer"
	"image-watcher/internal/logging"
	"image-watcher/internal/memory"
	"image-watcher/internal/startup"
	"image-watcher/internal/watcher"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync, then re-sync whenever the folder changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			startup.LogConfig(config)
			memory.Configure()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			idx := newIndexer(config, nil)
			defer idx.Close()
			startup.LogIndexerInit(config.WatchDir, config.Recursive)
			result, err := idx.Resync(ctx)
			if err != nil {
				return err
			}
			startup.LogIndexerStarted(result, config.IndexPath())

			idx.SetOnSyncComplete(logSyncComplete)
			err = runWatcher(ctx, config, idx)
			startup.LogShutdownComplete()
			return err
		},
	}
}

func logSyncComplete(result *indexer.SyncResult) {
	if result.Deleted {
		logging.Info("Folder has no images, index file removed")
		return
	}
	for _, s := range result.Skipped {
		logging.Warn("Not indexed: %s: %v", s.Path, s.Err)
	}
}

// runWatcher re-syncs idx after every debounced burst of changes until ctx
// is done.
func runWatcher(ctx context.Context, config *startup.Config, idx *indexer.Indexer) error {
	startup.LogWatcherInit(config.Debounce)

	w, err := watcher.New(watcher.Options{
		Root:        config.WatchDir,
		Recursive:   config.Recursive,
		Debounce:    config.Debounce,
		IgnoreNames: []string{config.DatabaseFile},
	}, func() {
		_, err := idx.Resync(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			logging.Debug("Sync after folder change abandoned: %v", err)
		case errors.Is(err, indexer.ErrSyncInProgress):
			logging.Info("Sync after folder change skipped, another sync is running")
		default:
			logging.Error("Sync after folder change failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			logging.Warn("Failed to close watcher: %v", err)
		}
	}()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
