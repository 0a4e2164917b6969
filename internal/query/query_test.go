package query

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"image-watcher/internal/database"
	"image-watcher/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfo struct {
	name    string
	modTime time.Time
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return f.modTime }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() interface{}   { return nil }

// fakeStat serves modification times from a map; missing paths do not exist.
func fakeStat(times map[string]time.Time) StatFunc {
	return func(path string) (os.FileInfo, error) {
		mt, ok := times[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return fakeInfo{name: filepath.Base(path), modTime: mt}, nil
	}
}

func record(path, prompt string) *database.ImageRecord {
	return &database.ImageRecord{
		Path:     path,
		Width:    512,
		Height:   768,
		Metadata: map[string]string{"Positive Prompt": prompt},
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{name: "words", filter: "Red Car", want: []string{"red", "car"}},
		{name: "quoted phrase", filter: `"Red Car" blue`, want: []string{"red car", "blue"}},
		{name: "single quotes", filter: `'a b'`, want: []string{"a b"}},
		{name: "hash is literal", filter: "#tag", want: []string{"#tag"}},
		{name: "empty", filter: "   ", want: []string{}},
		{name: "unterminated quote", filter: `"red car`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.filter))
		})
	}
}

func TestParse(t *testing.T) {
	q := Parse(`Red ~ -Blue "big cat"`, []string{"Positive Prompt"})

	assert.Equal(t, []string{"red", "~", "-blue", "big cat"}, q.Tokens)
	assert.Equal(t, []string{"red", "big cat"}, q.PositiveTerms)
	assert.Equal(t, []string{"blue"}, q.NegativeTerms)
	assert.True(t, q.CombineOr)
	assert.True(t, q.Active())

	assert.False(t, Parse("", []string{"Steps"}).Active())
	assert.False(t, Parse("red", nil).Active())
	assert.False(t, Parse(`"red`, []string{"Steps"}).Active())
}

func TestMatches(t *testing.T) {
	rec := &database.ImageRecord{
		Width:  512,
		Height: 768,
		Metadata: map[string]string{
			"Positive Prompt": "A Red Car",
			"Sampler":         "Euler a",
		},
	}
	fields := []string{"Positive Prompt", "Sampler", SizeField}

	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{name: "single term", filter: "red", want: true},
		{name: "case insensitive", filter: "EULER", want: true},
		{name: "terms across fields", filter: "car euler", want: true},
		{name: "and needs every term", filter: "car dog", want: false},
		{name: "or needs one term", filter: "dog ~ car", want: true},
		{name: "or with no hit", filter: "dog ~ cat", want: false},
		{name: "negative excludes", filter: "car -euler", want: false},
		{name: "negative excludes in or mode", filter: "car ~ -red", want: false},
		{name: "only negatives", filter: "-dog", want: true},
		{name: "size field", filter: "512x768", want: true},
		{name: "quoted phrase", filter: `"red car"`, want: true},
		{name: "phrase order matters", filter: `"car red"`, want: false},
		{name: "only or token", filter: "~", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.filter, fields).Matches(rec))
		})
	}
}

func TestMatchesMissingField(t *testing.T) {
	rec := &database.ImageRecord{Metadata: map[string]string{}}
	assert.False(t, Parse("euler", []string{"Sampler"}).Matches(rec))
	assert.True(t, Parse("-euler", []string{"Sampler"}).Matches(rec))
}

func TestEngineAndOrExamples(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	index := database.Index{
		"/img/a.png": record("/img/a.png", "red car"),
		"/img/b.png": record("/img/b.png", "red blue car"),
		"/img/c.png": record("/img/c.png", "blue car"),
	}
	engine := NewEngine(fakeStat(map[string]time.Time{
		"/img/a.png": base.Add(1 * time.Minute),
		"/img/b.png": base.Add(2 * time.Minute),
		"/img/c.png": base,
	}))
	fields := []string{"Positive Prompt"}

	assert.Equal(t, []string{"/img/a.png"}, engine.Evaluate("red -blue", index, fields))
	assert.Equal(t, []string{"/img/b.png", "/img/a.png"}, engine.Evaluate("red ~ green", index, fields))
	assert.Equal(t, []string{"/img/b.png", "/img/a.png", "/img/c.png"}, engine.Evaluate("red ~ blue", index, fields))
}

func TestEngineInactiveReturnsAllByRecency(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	index := database.Index{
		"/img/a.png":    record("/img/a.png", "x"),
		"/img/b.png":    record("/img/b.png", "y"),
		"/img/gone.png": record("/img/gone.png", "z"),
	}
	engine := NewEngine(fakeStat(map[string]time.Time{
		"/img/a.png": base,
		"/img/b.png": base.Add(time.Second),
	}))

	want := []string{"/img/b.png", "/img/a.png"}
	assert.Equal(t, want, engine.Evaluate("", index, DefaultFields))
	assert.Equal(t, want, engine.Evaluate("x", index, nil))
	assert.Equal(t, want, engine.Evaluate(`"broken`, index, DefaultFields))
}

func TestEngineTiesOrderedByPath(t *testing.T) {
	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	index := database.Index{
		"/img/c.png": record("/img/c.png", "cat"),
		"/img/a.png": record("/img/a.png", "cat"),
		"/img/b.png": record("/img/b.png", "cat"),
	}
	engine := NewEngine(fakeStat(map[string]time.Time{
		"/img/a.png": same,
		"/img/b.png": same,
		"/img/c.png": same,
	}))

	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"/img/a.png", "/img/b.png", "/img/c.png"},
			engine.Evaluate("cat", index, DefaultFields))
	}
}

func TestEngineSkipsStatErrors(t *testing.T) {
	index := database.Index{"/img/a.png": record("/img/a.png", "cat")}
	engine := NewEngine(func(string) (os.FileInfo, error) { return nil, errors.New("io error") })

	assert.Empty(t, engine.Evaluate("cat", index, DefaultFields))
	assert.Empty(t, engine.Evaluate("", index, DefaultFields))
}

func TestEvaluateOnDisk(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	index := database.Index{}
	prompts := map[string]string{"a.png": "red car", "b.png": "red blue car", "c.png": "blue car"}
	offsets := map[string]time.Duration{"a.png": 2 * time.Minute, "b.png": time.Minute, "c.png": 0}
	for name, prompt := range prompts {
		path := filepath.Join(dir, name)
		testutil.WritePNG(t, path, 2, 2)
		testutil.SetModTime(t, path, base.Add(offsets[name]))
		index[path] = record(path, prompt)
	}

	fields := []string{"Positive Prompt"}
	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, Evaluate("red -blue", index, fields))
	assert.Equal(t,
		[]string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")},
		Evaluate("red ~ green", index, fields))

	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))
	assert.Equal(t, []string{filepath.Join(dir, "b.png")}, Evaluate("red", index, fields))
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []string
	}{
		{name: "empty", list: "", want: DefaultFields},
		{name: "all", list: "all", want: DefaultFields},
		{name: "all among others", list: "Steps, ALL", want: DefaultFields},
		{name: "canonical spelling", list: "steps, cfg scale", want: []string{"Steps", "CFG scale"}},
		{name: "custom key kept", list: "Software,Steps", want: []string{"Software", "Steps"}},
		{name: "duplicates dropped", list: "Size,size, ,Size", want: []string{"Size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFields(tt.list))
		})
	}
}

func TestParseFieldsReturnsCopy(t *testing.T) {
	fields := ParseFields("ALL")
	fields[0] = "changed"
	assert.Equal(t, "Positive Prompt", DefaultFields[0])
}
