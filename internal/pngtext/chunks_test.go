package pngtext

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"image-watcher/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTypes(t *testing.T, cr *ChunkReader) []string {
	t.Helper()
	var types []string
	for cr.Next() {
		types = append(types, cr.Chunk().TypeString())
	}
	return types
}

func TestNewReaderYieldsAllChunks(t *testing.T) {
	data := testutil.PNGBytes(t, 4, 3, testutil.TextChunk("parameters", "cat"))

	cr, err := NewReader(bytes.NewReader(data), "mem.png")
	require.NoError(t, err)

	types := collectTypes(t, cr)
	require.NoError(t, cr.Err())
	require.NotEmpty(t, types)
	assert.Equal(t, "IHDR", types[0])
	assert.Equal(t, TypeText, types[1])
	assert.Equal(t, TypeEnd, types[len(types)-1])
	assert.Contains(t, types, "IDAT")
}

func TestNewReaderRejectsBadSignature(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short", data: Signature[:4]},
		{name: "jpeg", data: []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data), "bad")
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
			assert.Contains(t, fe.Error(), "signature")
		})
	}
}

func TestReaderIsNotRestartable(t *testing.T) {
	data := testutil.PNGBytes(t, 1, 1)
	cr, err := NewReader(bytes.NewReader(data), "mem.png")
	require.NoError(t, err)

	first := collectTypes(t, cr)
	require.NotEmpty(t, first)
	assert.False(t, cr.Next())
	assert.NoError(t, cr.Err())
}

func TestReaderStopsAtIEND(t *testing.T) {
	data := testutil.PNGBytes(t, 1, 1)
	data = append(data, []byte("trailing garbage")...)

	cr, err := NewReader(bytes.NewReader(data), "mem.png")
	require.NoError(t, err)

	types := collectTypes(t, cr)
	assert.Equal(t, TypeEnd, types[len(types)-1])
	assert.NoError(t, cr.Err())
}

func TestReaderTruncatedPayload(t *testing.T) {
	full := testutil.PNGBytes(t, 2, 2, testutil.TextChunk("Software", "painter"))
	// signature + IHDR + first 6 bytes of the tEXt chunk
	truncated := full[:8+25+6]

	cr, err := NewReader(bytes.NewReader(truncated), "cut.png")
	require.NoError(t, err)

	types := collectTypes(t, cr)
	assert.Equal(t, []string{"IHDR"}, types)

	var fe *FormatError
	require.True(t, errors.As(cr.Err(), &fe))
	assert.Contains(t, fe.Reason, "truncated")
}

func TestReaderMissingIEND(t *testing.T) {
	full := testutil.PNGBytes(t, 2, 2)
	// drop the 12 byte IEND chunk
	cr, err := NewReader(bytes.NewReader(full[:len(full)-12]), "noend.png")
	require.NoError(t, err)

	types := collectTypes(t, cr)
	assert.NotContains(t, types, TypeEnd)

	var fe *FormatError
	require.True(t, errors.As(cr.Err(), &fe))
	assert.Contains(t, fe.Reason, "IEND")
}

func TestReaderChecksumMismatch(t *testing.T) {
	chunk := testutil.TextChunk("Title", "x")
	chunk[len(chunk)-1] ^= 0xff
	data := testutil.PNGBytes(t, 1, 1, chunk)

	cr, err := NewReader(bytes.NewReader(data), "crc.png")
	require.NoError(t, err)

	collectTypes(t, cr)
	var fe *FormatError
	require.True(t, errors.As(cr.Err(), &fe))
	assert.Contains(t, fe.Reason, "checksum")
}

func TestReaderOversizedLength(t *testing.T) {
	data := append([]byte{}, Signature...)
	data = append(data, 0xff, 0xff, 0xff, 0xff, 't', 'E', 'X', 't')

	cr, err := NewReader(bytes.NewReader(data), "huge.png")
	require.NoError(t, err)
	assert.False(t, cr.Next())
	require.Error(t, cr.Err())
	assert.Contains(t, cr.Err().Error(), "exceeds limit")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	testutil.WritePNG(t, path, 3, 3, "parameters", "x")

	cr, err := Open(path)
	require.NoError(t, err)
	defer cr.Close()

	assert.Contains(t, collectTypes(t, cr), TypeText)
	assert.NoError(t, cr.Close())
	assert.NoError(t, cr.Close(), "second Close must be a no-op")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenNotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Open(path)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, path, fe.Path)
}
