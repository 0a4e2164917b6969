package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"image-watcher/internal/indexer"
)

func newSyncCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [dir]",
		Short: "Bring the index file up to date with the folder",
		Long: `Scan the folder for supported images, extract metadata from new or
modified files, drop records of deleted files and save the index.

A folder without images has its index file removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("dir", args[0]); err != nil {
					return err
				}
			}
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			progress, done := newProgress(cmd.OutOrStdout())
			idx := newIndexer(config, progress)
			result, err := idx.Run(ctx, config.WatchDir, config.Recursive, progress)
			done()
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			printSyncResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	return cmd
}

func printSyncResult(out io.Writer, result *indexer.SyncResult) {
	if result.Deleted {
		fmt.Fprintln(out, indexer.StatusNoImages)
		return
	}

	fmt.Fprintf(out, "Indexed %d images (%d extracted, %d unchanged, %d removed) in %v\n",
		len(result.Index), result.Extracted, result.Unchanged, result.Removed, result.Duration.Round(time.Millisecond))
	for _, s := range result.Skipped {
		fmt.Fprintf(out, "  skipped %s: %v\n", s.Path, s.Err)
	}
}
