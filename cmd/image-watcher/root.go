package main

import (
	"github.com/spf13/cobra"

	"image-watcher/internal/database"
	"image-watcher/internal/indexer"
	"image-watcher/internal/logging"
	"image-watcher/internal/startup"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dir        string
	recursive  bool
	dbFile     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "image-watcher",
		Short: "Index and filter images by their embedded generation metadata",
		Long: `image-watcher keeps a JSON index of the images in a folder, including the
generation parameters stored in PNG text chunks, and filters it by prompt,
sampler, model and other fields.`,
		Version:       startup.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("image-watcher version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVarP(&opts.dir, "dir", "d", "", "Folder to index (default: WATCH_DIR or the current directory)")
	pf.BoolVarP(&opts.recursive, "recursive", "r", false, "Include subfolders")
	pf.StringVar(&opts.dbFile, "db-file", "", "Index file name inside the folder")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newFilterCmd(opts))
	cmd.AddCommand(newMetadataCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves the configuration for cmd. Flags the user set win
// over the file and the environment.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*startup.Config, error) {
	config, err := startup.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		config.WatchDir = o.dir
	}
	if flags.Changed("recursive") {
		config.Recursive = o.recursive
	}
	if flags.Changed("db-file") {
		config.DatabaseFile = o.dbFile
	}
	if flags.Changed("log-level") {
		config.LogLevel = o.logLevel
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := logging.SetLevel(config.LogLevel); err != nil {
		return nil, err
	}
	return config, nil
}

// newIndexer wires a store and indexer for the configured folder.
func newIndexer(config *startup.Config, progress indexer.ProgressSink) *indexer.Indexer {
	store := database.New(config.WatchDir, config.DatabaseFile)
	return indexer.New(store, indexer.Config{
		Recursive: config.Recursive,
		Progress:  progress,
	})
}
