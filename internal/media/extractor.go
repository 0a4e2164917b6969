package media

import (
	"fmt"
	"path/filepath"
	"time"

	"image-watcher/internal/database"
	"image-watcher/internal/filesystem"
	"image-watcher/internal/logging"
	"image-watcher/internal/mediatypes"
	"image-watcher/internal/metrics"
	"image-watcher/internal/pngtext"
)

// UnreadableImageError reports a file that could not be opened or whose
// image header could not be decoded.
type UnreadableImageError struct {
	Path string
	Err  error
}

func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("unreadable image %s: %v", e.Path, e.Err)
}

func (e *UnreadableImageError) Unwrap() error { return e.Err }

// ExtractMetadata builds the record for the image at path. Damaged PNG text
// chunks never fail extraction; whatever was readable ends up in Metadata.
func ExtractMetadata(path string) (*database.ImageRecord, error) {
	start := time.Now()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &UnreadableImageError{Path: path, Err: err}
	}

	header, err := DecodeHeader(absPath)
	if err != nil {
		metrics.ExtractFailuresTotal.WithLabelValues("unreadable").Inc()
		return nil, &UnreadableImageError{Path: absPath, Err: err}
	}

	info, err := filesystem.StatWithRetry(absPath, filesystem.DefaultRetryConfig())
	if err != nil {
		metrics.ExtractFailuresTotal.WithLabelValues("unreadable").Inc()
		return nil, &UnreadableImageError{Path: absPath, Err: err}
	}

	rec := &database.ImageRecord{
		Path:              absPath,
		FileSize:          info.Size(),
		Width:             header.Width,
		Height:            header.Height,
		Format:            header.Format,
		ModifiedTime:      filesystem.DisplayTime(info.ModTime()),
		ModifiedTimeStamp: filesystem.Stamp(info.ModTime()),
		Metadata:          map[string]string{},
	}

	if mediatypes.HasTextChunks(absPath) {
		meta, err := ExtractTextMetadata(absPath)
		if err != nil {
			metrics.ExtractFailuresTotal.WithLabelValues("chunks").Inc()
			logging.Debug("Partial text metadata for %s: %v", absPath, err)
		}
		rec.Metadata = meta
	}

	metrics.ExtractDuration.WithLabelValues(rec.Format).Observe(time.Since(start).Seconds())
	return rec, nil
}

// ExtractTextMetadata reads the tEXt chunks of the PNG at path into a flat
// map. A "parameters" chunk is expanded with pngtext.ParseParameters and
// its keys take precedence over raw chunks of the same name. The returned
// map is never nil, even alongside an error.
func ExtractTextMetadata(path string) (map[string]string, error) {
	entries, err := pngtext.ReadText(path)
	metrics.TextChunksDecoded.Add(float64(len(entries)))
	return mergeText(entries), err
}

func mergeText(entries []pngtext.Entry) map[string]string {
	meta := make(map[string]string)
	derived := make(map[string]bool)

	for _, entry := range entries {
		if entry.Key == pngtext.ParametersKey {
			for k, v := range pngtext.ParseParameters(entry.Value) {
				meta[k] = v
				derived[k] = true
			}
			continue
		}
		if derived[entry.Key] {
			continue
		}
		meta[entry.Key] = entry.Value
	}
	return meta
}
