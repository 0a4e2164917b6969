package indexer

import "time"

// ProgressSink receives progress reports during a sync pass. Update is
// called after each file from the syncing goroutine and may block.
type ProgressSink interface {
	Update(percent float64, status, detail string)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(percent float64, status, detail string)

// Update calls f.
func (f ProgressFunc) Update(percent float64, status, detail string) {
	f(percent, status, detail)
}

// NopProgress discards all reports.
var NopProgress ProgressSink = ProgressFunc(func(float64, string, string) {})

// Progress is a snapshot of the most recent report of the running pass.
type Progress struct {
	Percent   float64   `json:"percent"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	IsSyncing bool      `json:"isSyncing"`
	StartedAt time.Time `json:"startedAt,omitempty"`
}

// trackingSink forwards reports to the caller's sink and records them on
// the Indexer for health reporting.
type trackingSink struct {
	idx       *Indexer
	next      ProgressSink
	startedAt time.Time
}

func (s *trackingSink) Update(percent float64, status, detail string) {
	s.idx.progress.Store(Progress{
		Percent:   percent,
		Status:    status,
		Detail:    detail,
		IsSyncing: true,
		StartedAt: s.startedAt,
	})
	s.next.Update(percent, status, detail)
}
