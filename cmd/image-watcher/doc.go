// Package main provides the image-watcher command line tool.
//
// image-watcher keeps a JSON index of the images in a folder together with
// the text metadata that image generators embed in PNG files, and answers
// filter queries over it.
//
// # Commands
//
//   - sync: bring the index file up to date with the folder
//   - filter: print the images whose metadata matches a query
//   - metadata: show stats and metadata of one image
//   - export: write metadata to text files
//   - watch: sync, then re-sync whenever the folder changes
//   - serve: watch and expose the HTTP API
//   - version: print build information
//
// # Configuration
//
// Settings come from built-in defaults, then an optional YAML file (--config),
// then environment variables, then flags. See package startup for the
// variable names.
//
// # Queries
//
// A filter is split into tokens like a shell command line, so quoted phrases
// stay together. Tokens starting with "-" exclude images containing the rest
// of the token. A bare "~" token switches from all terms matching to any
// term matching:
//
//	image-watcher filter -q 'cat "red hat" -blurry'
//	image-watcher filter -q 'cat ~ dog' --fields "Positive Prompt"
//
// # Graceful Shutdown
//
// watch and serve stop on SIGINT or SIGTERM. A running sync is cancelled
// before it saves, so the index file is never partially written.
package main
