// Package timing measures the spacing of qualifying lines and carries the measurements
// from the processing loop to whichever path finalizes the run.
package timing

import "time"

// Clock returns the current time. Tests substitute a deterministic one.
type Clock func() time.Time

// SystemClock reads the wall clock together with its monotonic reading.
func SystemClock() time.Time { return time.Now() }

// Snapshot is the timing of one qualifying line.
type Snapshot struct {
	Delta   time.Duration // since the previous qualifying line, or since start for the first
	Elapsed time.Duration // since start
}

// Record is a qualifying line ready for rendering.
type Record struct {
	Seq   uint64
	Text  string
	Match []int // [start, end) of the highlighted match, nil when unfiltered
	Snapshot
}

// Tracker owns the start time and the time of the last qualifying line.
// Mark is called from a single goroutine; Elapsed and Start may be called from any.
type Tracker struct {
	now   Clock
	start time.Time
	last  time.Time
}

// NewTracker captures the start time. The last event time starts equal to it.
func NewTracker(now Clock) *Tracker {
	if now == nil {
		now = SystemClock
	}
	t0 := now()
	return &Tracker{now: now, start: t0, last: t0}
}

// Mark records a qualifying line seen at `at` and returns its snapshot.
func (t *Tracker) Mark(at time.Time) Snapshot {
	s := Snapshot{
		Delta:   at.Sub(t.last),
		Elapsed: at.Sub(t.start),
	}
	t.last = at
	return s
}

// Now reads the tracker's clock.
func (t *Tracker) Now() time.Time { return t.now() }

// Start returns the captured start time.
func (t *Tracker) Start() time.Time { return t.start }

// Elapsed returns the time since start.
func (t *Tracker) Elapsed() time.Duration { return t.now().Sub(t.start) }
