package query

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"image-watcher/internal/database"
	"image-watcher/internal/logging"
	"image-watcher/internal/metrics"
)

// orToken switches a filter from AND to OR combination.
const orToken = "~"

// Query is a parsed filter.
type Query struct {
	Tokens        []string
	PositiveTerms []string
	NegativeTerms []string
	CombineOr     bool
	Fields        []string
}

// Tokenize splits filter with POSIX shell quoting rules and lower-cases each
// token. Input that cannot be split, such as an unterminated quote, yields
// no tokens.
func Tokenize(filter string) []string {
	words, err := shellquote.Split(filter)
	if err != nil {
		logging.Debug("Ignoring malformed filter %q: %v", filter, err)
		return nil
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, strings.ToLower(w))
	}
	return tokens
}

// Parse builds a Query searching fields.
func Parse(filter string, fields []string) Query {
	q := Query{
		Tokens: Tokenize(filter),
		Fields: append([]string(nil), fields...),
	}

	for _, tok := range q.Tokens {
		switch {
		case tok == orToken:
			q.CombineOr = true
		case strings.HasPrefix(tok, "-"):
			q.NegativeTerms = append(q.NegativeTerms, tok[1:])
		default:
			q.PositiveTerms = append(q.PositiveTerms, tok)
		}
	}
	return q
}

// Active reports whether the query filters at all.
func (q Query) Active() bool {
	return len(q.Tokens) > 0 && len(q.Fields) > 0
}

// Matches reports whether rec passes the query. An inactive query matches
// every record.
func (q Query) Matches(rec *database.ImageRecord) bool {
	if !q.Active() {
		return true
	}

	values := make([]string, len(q.Fields))
	for i, field := range q.Fields {
		values[i] = fieldValue(rec, field)
	}

	for _, term := range q.NegativeTerms {
		if anyContains(values, term) {
			return false
		}
	}

	if len(q.PositiveTerms) == 0 {
		return true
	}

	if q.CombineOr {
		for _, term := range q.PositiveTerms {
			if anyContains(values, term) {
				return true
			}
		}
		return false
	}

	for _, term := range q.PositiveTerms {
		if !anyContains(values, term) {
			return false
		}
	}
	return true
}

func (q Query) mode() string {
	switch {
	case !q.Active():
		return "inactive"
	case q.CombineOr:
		return "or"
	default:
		return "and"
	}
}

func fieldValue(rec *database.ImageRecord, field string) string {
	if field == SizeField {
		return fmt.Sprintf("%dx%d", rec.Width, rec.Height)
	}
	return strings.ToLower(rec.Metadata[field])
}

func anyContains(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}

// StatFunc reports the on-disk state of a path.
type StatFunc func(path string) (os.FileInfo, error)

// Engine evaluates queries against an index snapshot.
type Engine struct {
	stat StatFunc
}

// NewEngine creates an Engine. A nil stat uses os.Stat.
func NewEngine(stat StatFunc) *Engine {
	if stat == nil {
		stat = os.Stat
	}
	return &Engine{stat: stat}
}

var defaultEngine = NewEngine(nil)

// Evaluate filters index with the default Engine.
func Evaluate(filter string, index database.Index, fields []string) []string {
	return defaultEngine.Evaluate(filter, index, fields)
}

// Evaluate returns the paths of index matching filter over fields, newest
// first. Equal modification times are ordered by path.
func (e *Engine) Evaluate(filter string, index database.Index, fields []string) []string {
	return e.Run(Parse(filter, fields), index)
}

type candidate struct {
	path    string
	modTime time.Time
}

// Run evaluates a parsed query.
func (e *Engine) Run(q Query, index database.Index) []string {
	start := time.Now()

	matched := make([]candidate, 0, len(index))
	for path, rec := range index {
		if rec == nil {
			continue
		}
		info, err := e.stat(path)
		if err != nil {
			continue
		}
		if !q.Matches(rec) {
			continue
		}
		matched = append(matched, candidate{path: path, modTime: info.ModTime()})
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].modTime.Equal(matched[j].modTime) {
			return matched[i].modTime.After(matched[j].modTime)
		}
		return matched[i].path < matched[j].path
	})

	paths := make([]string, len(matched))
	for i, c := range matched {
		paths[i] = c.path
	}

	metrics.QueryEvaluationsTotal.WithLabelValues(q.mode()).Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	metrics.QueryResults.Observe(float64(len(paths)))
	return paths
}
