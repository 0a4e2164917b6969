package pngtext

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

// ParametersKey is the tEXt keyword holding generation parameters.
const ParametersKey = "parameters"

// Entry is one decoded tEXt keyword/value pair.
type Entry struct {
	Key   string
	Value string
}

// DecodeText splits a tEXt payload at its first NUL byte and decodes both
// halves as Latin-1. ok is false when the separator is missing or either half
// is empty.
func DecodeText(payload []byte) (key, value string, ok bool) {
	idx := bytes.IndexByte(payload, 0)
	if idx < 0 {
		return "", "", false
	}

	key = decodeLatin1(payload[:idx])
	value = decodeLatin1(payload[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func decodeLatin1(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO 8859-1 maps every byte, this is unreachable in practice
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		return string(runes)
	}
	return string(out)
}

// ReadText returns the decoded tEXt entries of the PNG at path in file order.
// Chunks that fail to decode are skipped. If the chunk stream is corrupt the
// entries read before the damage are returned together with the
// *FormatError.
func ReadText(path string) ([]Entry, error) {
	cr, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	var entries []Entry
	for cr.Next() {
		c := cr.Chunk()
		if !c.IsText() {
			continue
		}
		key, value, ok := DecodeText(c.Data)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, cr.Err()
}
