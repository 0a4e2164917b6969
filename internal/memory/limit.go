package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/dustin/go-humanize"

	"image-watcher/internal/logging"
)

// DefaultRatio is the share of the container limit handed to the Go heap.
const DefaultRatio = 0.9

// Sources of a configured limit.
const (
	SourceNone        = "none"
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
)

// Limit describes the outcome of Configure.
type Limit struct {
	Source string
	// Container is the MEMORY_LIMIT value in bytes, 0 when unset.
	Container int64
	// GoLimit is the runtime soft limit in bytes, 0 when none applies.
	GoLimit int64
	Ratio   float64
}

// Configured reports whether a runtime limit is in effect.
func (l Limit) Configured() bool {
	return l.Source != SourceNone
}

// Configure applies the memory limit described by the environment. Call it
// before the first sync.
func Configure() Limit {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		// The runtime already parsed GOMEMLIMIT; a negative input only reads it.
		current := debug.SetMemoryLimit(-1)
		if current <= 0 || current == math.MaxInt64 {
			return Limit{Source: SourceNone}
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return Limit{Source: SourceGoMemLimit, GoLimit: current}
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving the runtime memory limit alone")
		return Limit{Source: SourceNone}
	}

	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Limit{Source: SourceNone}
	}

	ratio := parseRatio(os.Getenv("MEMORY_RATIO"))
	goLimit := int64(float64(container) * ratio)
	debug.SetMemoryLimit(goLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		humanize.IBytes(uint64(goLimit)), ratio*100, humanize.IBytes(uint64(container)))

	return Limit{
		Source:    SourceMemoryLimit,
		Container: container,
		GoLimit:   goLimit,
		Ratio:     ratio,
	}
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultRatio
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		logging.Warn("MEMORY_RATIO %q must be in (0, 1], using %.2f", raw, DefaultRatio)
		return DefaultRatio
	}
	return ratio
}
