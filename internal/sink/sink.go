// Package sink defines where timed lines and the run summary are written.
package sink

import (
	"time"

	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// Report is the final state of a run as handed to a sink.
type Report struct {
	monitor.Counters
	Total     time.Duration // elapsed time at finalize
	Snapshots int           // snapshots drained at finalize
	Text      string        // rendered summary line
	Reason    string        // "end of stream" or "interrupt"
}

// Sink receives qualifying lines in order and the summary exactly once.
// Each Write must reach the destination before it returns; nothing may be buffered
// across calls, since an interrupt can end the process at any point.
type Sink interface {
	// Write outputs a single timed line.
	Write(r timing.Record) error

	// Summary outputs the end-of-run report.
	Summary(r Report) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}
