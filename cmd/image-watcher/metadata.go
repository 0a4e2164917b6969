package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"image-watcher/internal/indexer"
	"image-watcher/internal/media"
	"image-watcher/internal/mediatypes"
)

func newMetadataCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <image>",
		Short: "Show stats and metadata of one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.loadConfig(cmd); err != nil {
				return err
			}
			return printMetadata(cmd.OutOrStdout(), args[0])
		},
	}
}

func printMetadata(out io.Writer, path string) error {
	if !mediatypes.IsSupportedPath(path) {
		return fmt.Errorf("%s: unsupported image type", path)
	}

	stats, err := media.Stats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Name:       %s\n", stats.Name)
	fmt.Fprintf(out, "Size:       %s\n", humanize.Bytes(uint64(stats.Size)))
	fmt.Fprintf(out, "Dimensions: %s\n", stats.Dimensions())
	fmt.Fprintf(out, "Format:     %s (%s)\n", stats.Format, stats.MimeType)
	fmt.Fprintf(out, "Modified:   %s (%s)\n", stats.Modified, humanize.Time(stats.ModTime))
	fmt.Fprintln(out)

	meta := map[string]string{}
	if mediatypes.HasTextChunks(path) {
		meta, _ = media.ExtractTextMetadata(path)
	}
	if len(meta) == 0 {
		fmt.Fprintln(out, "No PNG metadata found")
		return nil
	}
	fmt.Fprint(out, media.FormatMetadata(meta))
	return nil
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		output string
		all    bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export [image]",
		Short: "Write image metadata to text files",
		Long: `Write the metadata of one image to a text file, or with --all the
metadata of every indexed image into a folder. Existing files are never
overwritten; a numbered name (name_1.txt, ...) is used instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				if len(args) > 0 {
					return errors.New("--all does not take an image argument")
				}
				dir := outDir
				if dir == "" {
					dir = config.WatchDir
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				index, err := newIndexer(config, nil).Sync(ctx, config.WatchDir, config.Recursive, indexer.NopProgress)
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}

				n, err := media.ExportAll(index.Paths(), dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported metadata of %d images to %s\n", n, dir)
				return nil
			}

			if len(args) == 0 {
				return errors.New("an image path or --all is required")
			}
			image := args[0]
			target := output
			if target == "" {
				target = filepath.Join(filepath.Dir(image), media.TextFilename(image))
			}

			written, err := media.ExportMetadata(image, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Metadata exported to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: next to the image, .txt extension)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every indexed image")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Folder for --all (default: the watched folder)")

	return cmd
}
