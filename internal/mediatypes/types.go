package mediatypes

import (
	"path/filepath"
	"strings"
)

// ImageExtensions maps file extensions to whether they are indexed.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// TextChunkExtension is the extension of the only container whose text
// chunks are parsed for metadata.
const TextChunkExtension = ".png"

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// IsSupported returns true if ext (with leading dot, any case) is an indexed
// image extension.
func IsSupported(ext string) bool {
	return ImageExtensions[strings.ToLower(ext)]
}

// IsSupportedPath is IsSupported applied to the extension of path.
func IsSupportedPath(path string) bool {
	return IsSupported(filepath.Ext(path))
}

// HasTextChunks reports whether the file at path is expected to carry
// PNG text chunks, judged by extension only.
func HasTextChunks(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == TextChunkExtension
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// FormatTag normalizes a decoder format name ("png", "jpeg") into the
// upper-case tag stored on records ("PNG", "JPEG").
func FormatTag(decoderName string) string {
	return strings.ToUpper(decoderName)
}

// Extensions returns the supported extensions in a stable order.
func Extensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tif", ".tiff"}
}
