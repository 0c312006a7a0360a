// Package pipeline orchestrates Source → Filter → timing → Sink processing and the
// exactly-once finalize that ends a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/entry"
	"github.com/Geun-Oh/timeln/internal/filter"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/sink"
	"github.com/Geun-Oh/timeln/internal/source"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// Reason tells why processing stopped.
type Reason int

const (
	EndOfStream Reason = iota
	Interrupt
)

// String returns the string representation of a Reason.
func (r Reason) String() string {
	if r == Interrupt {
		return "interrupt"
	}
	return "end of stream"
}

// Config holds processing loop configuration.
type Config struct {
	Source  source.Source
	Filter  filter.Filter // optional; nil times every line
	Sink    sink.Sink
	Tally   *monitor.Tally
	Tracker *timing.Tracker
	Queue   *timing.Queue
	Clock   timing.Clock // stamps lines at read time; defaults to the system clock
	Logger  *slog.Logger
}

// Processor is the single producer: it reads lines, updates the counters, publishes
// snapshots and writes annotated records.
type Processor struct {
	cfg Config
	log *slog.Logger
}

// NewProcessor validates cfg.
func NewProcessor(cfg Config) (*Processor, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline: source is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("pipeline: sink is required")
	}
	if cfg.Tally == nil || cfg.Tracker == nil || cfg.Queue == nil {
		return nil, fmt.Errorf("pipeline: tally, tracker and queue are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = cfg.Tracker.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Processor{cfg: cfg, log: log}, nil
}

// Process runs the loop until end of stream or until ctx is cancelled. It never finalizes.
// A read, transport or write failure aborts the loop and is returned.
func (p *Processor) Process(ctx context.Context) (Reason, error) {
	feed := source.Pump(ctx, p.cfg.Source, p.cfg.Clock)
	lines := feed.Lines()

	for {
		select {
		case <-ctx.Done():
			return Interrupt, nil
		case line, ok := <-lines:
			if !ok {
				if err := feed.Err(); err != nil {
					return EndOfStream, err
				}
				if ctx.Err() != nil {
					return Interrupt, nil
				}
				p.log.Debug("end of stream", "source", p.cfg.Source.Name(), "lines", feed.Read())
				return EndOfStream, nil
			}
			if err := p.handle(line); err != nil {
				// An emergency finalize drains the queue while the loop winds down.
				if ctx.Err() != nil && errors.Is(err, timing.ErrQueueClosed) {
					return Interrupt, nil
				}
				return EndOfStream, err
			}
		}
	}
}

func (p *Processor) handle(line entry.Line) error {
	p.cfg.Tally.AddLine()

	var match []int
	if p.cfg.Filter != nil {
		match = p.cfg.Filter.Find(line.Text)
		if match == nil {
			return nil
		}
		p.cfg.Tally.AddMatch()
	}

	snap := p.cfg.Tracker.Mark(line.At)
	if err := p.cfg.Queue.Send(snap); err != nil {
		return err
	}

	rec := timing.Record{Seq: line.Seq, Text: line.Text, Match: match, Snapshot: snap}
	if err := p.cfg.Sink.Write(rec); err != nil {
		return apperr.New(apperr.KindOutput, "pipeline: write to "+p.cfg.Sink.Name(), err)
	}
	return nil
}

// Run processes until end of stream or cancellation and then finalizes.
// Processing errors return without finalizing. After an interrupt the result wraps
// apperr.ErrInterrupted, joined with any finalize error.
func Run(ctx context.Context, p *Processor, f *Finalizer) error {
	reason, err := p.Process(ctx)
	if err != nil {
		return err
	}

	_, err = f.Finalize(reason)
	if reason == Interrupt {
		return errors.Join(apperr.ErrInterrupted, err)
	}
	return err
}
