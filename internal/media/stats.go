package media

import (
	"fmt"
	"path/filepath"
	"time"

	"image-watcher/internal/filesystem"
	"image-watcher/internal/mediatypes"
)

// FileStats summarizes an image for display.
type FileStats struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Format   string    `json:"format"`
	MimeType string    `json:"mimeType"`
	ModTime  time.Time `json:"modTime"`
	Modified string    `json:"modified"`
}

// Dimensions renders the size as "WxH".
func (s *FileStats) Dimensions() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Stats reads the display summary of the image at path.
func Stats(path string) (*FileStats, error) {
	header, err := DecodeHeader(path)
	if err != nil {
		return nil, &UnreadableImageError{Path: path, Err: err}
	}

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return &FileStats{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		Width:    header.Width,
		Height:   header.Height,
		Format:   header.Format,
		MimeType: mediatypes.GetMimeType(filepath.Ext(path)),
		ModTime:  info.ModTime(),
		Modified: filesystem.DisplayTime(info.ModTime()),
	}, nil
}
