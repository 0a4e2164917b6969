package pngtext

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
)

// Signature is the 8-byte header every PNG file starts with.
var Signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	// TypeText is the uncompressed Latin-1 text chunk.
	TypeText = "tEXt"
	// TypeEnd terminates the chunk stream.
	TypeEnd = "IEND"
)

// FormatError reports a file that is not a PNG or whose chunk stream is
// truncated or corrupt.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return "png: " + e.Reason
	}
	return fmt.Sprintf("png: %s: %s", e.Path, e.Reason)
}

// Chunk is one raw chunk of a PNG stream.
type Chunk struct {
	Type [4]byte
	Data []byte
}

// TypeString returns the four letter chunk type.
func (c Chunk) TypeString() string {
	return string(c.Type[:])
}

// IsText reports whether the chunk is a tEXt chunk.
func (c Chunk) IsText() bool {
	return c.TypeString() == TypeText
}

// ChunkReader iterates over the chunks of a PNG stream. It is not
// restartable; once Next returns false the reader is exhausted.
type ChunkReader struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	cur    Chunk
	err    error
	done   bool
}

// Open opens the file at path and validates its signature.
func Open(path string) (*ChunkReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	cr, err := NewReader(f, path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cr.closer = f
	return cr, nil
}

// NewReader wraps r and validates the PNG signature. name is only used in
// error messages.
func NewReader(r io.Reader, name string) (*ChunkReader, error) {
	br := bufio.NewReader(r)

	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(br, sig); err != nil || !bytes.Equal(sig, Signature) {
		return nil, &FormatError{Path: name, Reason: "missing PNG signature"}
	}

	return &ChunkReader{name: name, r: br}, nil
}

// Next advances to the next chunk. It returns false at the end of the stream
// or on error; check Err to tell them apart.
func (cr *ChunkReader) Next() bool {
	if cr.done || cr.err != nil {
		return false
	}

	var header [8]byte
	if _, err := io.ReadFull(cr.r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			cr.fail("stream ended before IEND")
		} else {
			cr.fail("truncated chunk header")
		}
		return false
	}

	length := binary.BigEndian.Uint32(header[:4])
	if length > math.MaxInt32 {
		cr.fail(fmt.Sprintf("chunk length %d exceeds limit", length))
		return false
	}

	var chunk Chunk
	copy(chunk.Type[:], header[4:8])

	// Grow with the data actually present so a forged length cannot force
	// a huge allocation.
	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, cr.r, int64(length)); err != nil {
		cr.fail(fmt.Sprintf("truncated %s chunk: got %d of %d bytes", chunk.TypeString(), n, length))
		return false
	}
	chunk.Data = buf.Bytes()

	var crcBytes [4]byte
	if _, err := io.ReadFull(cr.r, crcBytes[:]); err != nil {
		cr.fail(fmt.Sprintf("truncated %s chunk checksum", chunk.TypeString()))
		return false
	}

	crc := crc32.NewIEEE()
	crc.Write(chunk.Type[:])
	crc.Write(chunk.Data)
	if crc.Sum32() != binary.BigEndian.Uint32(crcBytes[:]) {
		cr.fail(fmt.Sprintf("checksum mismatch in %s chunk", chunk.TypeString()))
		return false
	}

	if chunk.TypeString() == TypeEnd {
		cr.done = true
	}
	cr.cur = chunk
	return true
}

func (cr *ChunkReader) fail(reason string) {
	cr.err = &FormatError{Path: cr.name, Reason: reason}
}

// Chunk returns the chunk read by the last successful call to Next.
func (cr *ChunkReader) Chunk() Chunk {
	return cr.cur
}

// Err returns the error that stopped iteration, if any.
func (cr *ChunkReader) Err() error {
	return cr.err
}

// Close releases the underlying file when the reader was created by Open.
func (cr *ChunkReader) Close() error {
	if cr.closer == nil {
		return nil
	}
	err := cr.closer.Close()
	cr.closer = nil
	return err
}
