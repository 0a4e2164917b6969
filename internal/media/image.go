package media

import (
	"fmt"
	"image"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support

	"image-watcher/internal/filesystem"
	"image-watcher/internal/logging"
	"image-watcher/internal/mediatypes"
)

// ImageHeader holds what the image header reveals without decoding pixels.
type ImageHeader struct {
	Width  int
	Height int
	Format string
}

// DecodeHeader returns the dimensions and upper-case format tag of the image
// at path.
func DecodeHeader(path string) (*ImageHeader, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	return &ImageHeader{
		Width:  config.Width,
		Height: config.Height,
		Format: mediatypes.FormatTag(format),
	}, nil
}
