package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"image-watcher/internal/logging"
	"image-watcher/internal/mediatypes"
	"image-watcher/internal/pngtext"
)

// ErrNoMetadata is returned when an image carries no PNG text metadata.
var ErrNoMetadata = errors.New("no PNG metadata found")

// FormatMetadata renders meta as "key:\nvalue\n" blocks separated by blank
// lines. The prompts come first, the remaining keys follow in sorted order.
func FormatMetadata(meta map[string]string) string {
	blocks := make([]string, 0, len(meta))
	for _, key := range OrderedKeys(meta) {
		blocks = append(blocks, fmt.Sprintf("%s:\n%s\n", key, meta[key]))
	}
	return strings.Join(blocks, "\n")
}

// OrderedKeys returns the keys of meta in display order.
func OrderedKeys(meta map[string]string) []string {
	keys := make([]string, 0, len(meta))
	for _, k := range []string{pngtext.PositivePromptKey, pngtext.NegativePromptKey} {
		if _, ok := meta[k]; ok {
			keys = append(keys, k)
		}
	}

	rest := make([]string, 0, len(meta))
	for k := range meta {
		if k != pngtext.PositivePromptKey && k != pngtext.NegativePromptKey {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// ExportMetadata writes the formatted metadata of imagePath to outPath.
// If outPath already exists a numbered sibling (name_1.txt, name_2.txt, ...)
// is used instead. It returns the path actually written.
func ExportMetadata(imagePath, outPath string) (string, error) {
	if !mediatypes.HasTextChunks(imagePath) {
		return "", fmt.Errorf("%s: %w", imagePath, ErrNoMetadata)
	}

	meta, err := ExtractTextMetadata(imagePath)
	if err != nil && len(meta) == 0 {
		return "", fmt.Errorf("failed to read metadata from %s: %w", imagePath, err)
	}
	if len(meta) == 0 {
		return "", fmt.Errorf("%s: %w", imagePath, ErrNoMetadata)
	}

	target, err := UniqueFilename(outPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(FormatMetadata(meta)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}
	return target, nil
}

// ExportAll writes one metadata file per image into dir, named after the
// image with a .txt extension. Images without metadata and files that cannot
// be written are skipped. It returns the number of files written.
func ExportAll(imagePaths []string, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("export directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("export target %s is not a directory", dir)
	}

	exported := 0
	for _, imagePath := range imagePaths {
		out := filepath.Join(dir, TextFilename(imagePath))
		if _, err := ExportMetadata(imagePath, out); err != nil {
			if !errors.Is(err, ErrNoMetadata) {
				logging.Warn("Skipping export of %s: %v", imagePath, err)
			}
			continue
		}
		exported++
	}
	return exported, nil
}

// TextFilename returns the base name of imagePath with its extension
// replaced by .txt.
func TextFilename(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

// UniqueFilename returns path if nothing exists there, otherwise the first
// free "base_N.ext" variant.
func UniqueFilename(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for counter := 1; ; counter++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}
