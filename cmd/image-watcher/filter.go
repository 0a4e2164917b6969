package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"image-watcher/internal/database"
	"image-watcher/internal/indexer"
	"image-watcher/internal/query"
)

func newFilterCmd(opts *globalOptions) *cobra.Command {
	var (
		filter     string
		fields     string
		noSync     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "filter [query]",
		Short: "Print the images whose metadata matches a query",
		Long: `Print the paths of indexed images matching the query, newest first.

Terms must all appear in at least one of the searched fields. "-term"
excludes images containing term and a lone "~" makes any term enough.
An empty query prints every indexed image.`,
		Example: `  image-watcher filter -q 'cat -dog'
  image-watcher filter 'red ~ blue' --fields "Positive Prompt,Model"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter == "" && len(args) > 0 {
				filter = strings.Join(args, " ")
			}
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			fieldList := config.FilterFields
			if fields != "" {
				fieldList = query.ParseFields(fields)
			}

			idx := newIndexer(config, nil)
			var index database.Index
			if noSync {
				index = idx.Store().Load()
			} else {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				index, err = idx.Sync(ctx, config.WatchDir, config.Recursive, indexer.NopProgress)
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
			}

			paths := query.Evaluate(filter, index, fieldList)
			out := cmd.OutOrStdout()
			if jsonOutput {
				if paths == nil {
					paths = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(paths)
			}
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "query", "q", "", "Filter query")
	cmd.Flags().StringVar(&fields, "fields", "", `Comma separated fields to search, or "ALL" (default: FILTER_FIELDS)`)
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Use the saved index without syncing first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as a JSON array")

	return cmd
}
