package pngtext

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"image-watcher/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name      string
		payload   []byte
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{name: "simple", payload: []byte("Title\x00Sunset"), wantKey: "Title", wantValue: "Sunset", wantOK: true},
		{name: "first null splits", payload: []byte("k\x00a\x00b"), wantKey: "k", wantValue: "a\x00b", wantOK: true},
		{name: "latin1 bytes", payload: []byte{'C', 0x00, 'c', 'a', 'f', 0xe9}, wantKey: "C", wantValue: "café", wantOK: true},
		{name: "no separator", payload: []byte("just text"), wantOK: false},
		{name: "empty key", payload: []byte("\x00value"), wantOK: false},
		{name: "empty value", payload: []byte("key\x00"), wantOK: false},
		{name: "empty", payload: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := DecodeText(tt.payload)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.png")
	data := testutil.PNGBytes(t, 2, 2,
		testutil.TextChunk("parameters", "cat\nNegative prompt: dog"),
		testutil.RawChunk("tEXt", []byte("no separator here")),
		testutil.RawChunk("zTXt", []byte("Comment\x00\x00compressed")),
		testutil.TextChunk("Software", "painter"),
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "parameters", Value: "cat\nNegative prompt: dog"},
		{Key: "Software", Value: "painter"},
	}, entries)
}

func TestReadTextKeepsEntriesBeforeCorruption(t *testing.T) {
	bad := testutil.TextChunk("Broken", "x")
	bad[len(bad)-2] ^= 0x01

	path := filepath.Join(t.TempDir(), "partial.png")
	data := testutil.PNGBytes(t, 2, 2, testutil.TextChunk("Title", "kept"), bad)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := ReadText(path)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []Entry{{Key: "Title", Value: "kept"}}, entries)
}
