package pipeline

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/plot"
	"github.com/Geun-Oh/timeln/internal/sink"
	"github.com/Geun-Oh/timeln/internal/summary"
	"github.com/Geun-Oh/timeln/internal/timefmt"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// FinalizerConfig holds what the end-of-run summary needs.
type FinalizerConfig struct {
	Tally   *monitor.Tally
	Queue   *timing.Queue
	Tracker *timing.Tracker
	Summary summary.Style
	Format  timefmt.Format
	Sink    sink.Sink    // receives the summary
	Plots   *plot.Writer // optional; nil disables charts
	Logger  *slog.Logger
}

// Finalizer emits the summary and charts of a run. Finalize may be called from the
// processing loop and from the interrupt coordinator concurrently; the body runs once.
type Finalizer struct {
	cfg     FinalizerConfig
	log     *slog.Logger
	started atomic.Bool
	done    chan struct{}
	report  sink.Report
}

// NewFinalizer creates a Finalizer.
func NewFinalizer(cfg FinalizerConfig) *Finalizer {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Finalizer{cfg: cfg, log: log, done: make(chan struct{})}
}

// Finalize reads the counters, drains the snapshot queue, writes the summary and, when
// enabled, the charts. Only the first caller does this; later callers return (false, nil)
// immediately without waiting.
func (f *Finalizer) Finalize(reason Reason) (bool, error) {
	if !f.started.CompareAndSwap(false, true) {
		f.log.Debug("finalize already claimed", "reason", reason)
		return false, nil
	}
	defer close(f.done)

	counters, err := f.cfg.Tally.Read()
	if err != nil {
		f.log.Warn("reporting last known counters", "err", err)
	}
	snaps := f.cfg.Queue.Drain()
	total := f.cfg.Tracker.Elapsed()

	f.report = sink.Report{
		Counters:  counters,
		Total:     total,
		Snapshots: len(snaps),
		Text:      f.cfg.Summary.Summarize(counters.Lines, counters.Matches, total, f.cfg.Format),
		Reason:    reason.String(),
	}
	f.log.Debug("finalizing", "reason", reason, "lines", counters.Lines, "matches", counters.Matches, "snapshots", len(snaps))

	var errs []error
	if err := f.cfg.Sink.Summary(f.report); err != nil {
		errs = append(errs, apperr.New(apperr.KindOutput, "pipeline: write summary", err))
	}
	if err := f.cfg.Sink.Flush(); err != nil {
		errs = append(errs, apperr.New(apperr.KindOutput, "pipeline: flush "+f.cfg.Sink.Name(), err))
	}

	if f.cfg.Plots != nil {
		paths, err := f.cfg.Plots.Write(snaps)
		switch {
		case errors.Is(err, plot.ErrNoData):
			f.log.Warn("no qualifying lines, charts skipped")
		case err != nil:
			errs = append(errs, apperr.New(apperr.KindOutput, "pipeline: write charts", err))
		default:
			f.log.Info("charts written", "files", paths)
		}
	}

	f.cfg.Tally.Stop()
	return true, errors.Join(errs...)
}

// Emergency finalizes on behalf of an interrupt that could not wait for the loop.
func (f *Finalizer) Emergency() error {
	_, err := f.Finalize(Interrupt)
	return err
}

// Started reports whether some caller has claimed the finalize.
func (f *Finalizer) Started() bool { return f.started.Load() }

// Done is closed once the claimed finalize has completed.
func (f *Finalizer) Done() <-chan struct{} { return f.done }

// Report returns what was summarized. ok is false until Done is closed.
func (f *Finalizer) Report() (r sink.Report, ok bool) {
	select {
	case <-f.done:
		return f.report, true
	default:
		return sink.Report{}, false
	}
}
