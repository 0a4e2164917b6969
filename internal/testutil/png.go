// Package testutil builds image fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
	"time"
)

// ihdrEnd is the offset just past the signature and the IHDR chunk.
const ihdrEnd = 8 + 8 + 13 + 4

// RawChunk encodes a single PNG chunk with a valid checksum.
func RawChunk(typ string, data []byte) []byte {
	var buf bytes.Buffer
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf.Write(length[:])
	buf.WriteString(typ)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])
	return buf.Bytes()
}

// TextChunk encodes a tEXt chunk. key and value are written byte for byte.
func TextChunk(key, value string) []byte {
	data := make([]byte, 0, len(key)+1+len(value))
	data = append(data, key...)
	data = append(data, 0)
	data = append(data, value...)
	return RawChunk("tEXt", data)
}

// PNGBytes encodes a width x height PNG with the given extra chunks placed
// right after IHDR.
func PNGBytes(t *testing.T, width, height int, chunks ...[]byte) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}

	encoded := buf.Bytes()
	out := make([]byte, 0, len(encoded)+64)
	out = append(out, encoded[:ihdrEnd]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	out = append(out, encoded[ihdrEnd:]...)
	return out
}

// WritePNG writes a PNG with tEXt chunks built from key/value pairs.
func WritePNG(t *testing.T, path string, width, height int, text ...string) {
	t.Helper()

	if len(text)%2 != 0 {
		t.Fatalf("WritePNG needs key/value pairs, got %d strings", len(text))
	}
	var chunks [][]byte
	for i := 0; i < len(text); i += 2 {
		chunks = append(chunks, TextChunk(text[i], text[i+1]))
	}

	if err := os.WriteFile(path, PNGBytes(t, width, height, chunks...), 0o644); err != nil {
		t.Fatalf("Failed to write test PNG: %v", err)
	}
}

// WriteJPEG writes a plain JPEG image.
func WriteJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test JPEG: %v", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
}

// SetModTime sets both access and modification time of path.
func SetModTime(t *testing.T, path string, mt time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("Failed to set mod time on %s: %v", path, err)
	}
}
