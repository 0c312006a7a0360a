package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/buffer"
	"github.com/Geun-Oh/timeln/internal/config"
	"github.com/Geun-Oh/timeln/internal/filter"
	"github.com/Geun-Oh/timeln/internal/interrupt"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/pipeline"
	"github.com/Geun-Oh/timeln/internal/plot"
	"github.com/Geun-Oh/timeln/internal/sink"
	"github.com/Geun-Oh/timeln/internal/source"
	"github.com/Geun-Oh/timeln/internal/timing"
	"github.com/Geun-Oh/timeln/internal/tui"
)

type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	interrupts []interrupt.Option // overrides for tests
	clock      timing.Clock
	onRegister func(*interrupt.Coordinator)
}

// run executes one timing run. An interrupted run that finalized cleanly returns nil.
func run(ctx context.Context, s config.Settings, std stdio) error {
	log := slog.New(slog.NewTextHandler(std.err, &slog.HandlerOptions{Level: s.LogLevel}))
	if s.ConfigUsed != "" {
		log.Debug("config file loaded", "path", s.ConfigUsed)
	}

	// The pattern is compiled before any input is read. Without one every line is timed
	// and none counts as a match; an empty pattern matches every line.
	var f filter.Filter
	if s.HasPattern {
		var err error
		if f, err = filter.New(s.Pattern, s.Fixed); err != nil {
			return err
		}
	}

	ann := annotate.New(s.Annotation, s.TimeFormat, annotate.NewPalette(s.Color))
	var out sink.Sink
	switch s.Output {
	case config.JSON:
		out = sink.NewJSONSink(std.out, s.TimeFormat)
	default:
		out = sink.NewTerminalSink(std.out, ann)
	}
	defer out.Close()

	var plots *plot.Writer
	if s.Plot {
		plots = plot.NewWriter(s.PlotDir, s.PlotFormat)
	}

	tally := monitor.NewTally()
	defer tally.Stop()
	tracker := timing.NewTracker(std.clock)
	queue := timing.NewQueue()
	fin := pipeline.NewFinalizer(pipeline.FinalizerConfig{
		Tally:   tally,
		Queue:   queue,
		Tracker: tracker,
		Summary: s.Summary,
		Format:  s.TimeFormat,
		Sink:    out,
		Plots:   plots,
		Logger:  log,
	})

	coord := interrupt.New(fin, log, std.interrupts...)
	ctx, stop, err := coord.Register(ctx)
	if err != nil {
		return err
	}
	defer stop()
	if std.onRegister != nil {
		std.onRegister(coord)
	}

	src, err := openSource(ctx, s, std)
	if err != nil {
		return err
	}
	defer src.Close()
	log.Debug("run started", "source", src.Name(), "sink", out.Name(), "tui", s.TUI)

	cfg := pipeline.Config{
		Source:  src,
		Filter:  f,
		Sink:    out,
		Tally:   tally,
		Tracker: tracker,
		Queue:   queue,
		Logger:  log,
	}
	if s.TUI {
		dash := tui.NewSink(buffer.NewRing(0), monitor.NewRate(0, 0), monitor.NewSlow(s.Slow), tracker.Start())
		cfg.Sink = dash
		proc, err := pipeline.NewProcessor(cfg)
		if err != nil {
			return err
		}
		err = tui.Run(ctx, &tui.RunConfig{
			Processor: proc,
			Finalizer: fin,
			Sink:      dash,
			Tally:     tally,
			Tracker:   tracker,
			Annotator: ann,
			Source:    src.Name(),
		})
		return settle(log, src, err)
	}

	proc, err := pipeline.NewProcessor(cfg)
	if err != nil {
		return err
	}
	return settle(log, src, pipeline.Run(ctx, proc, fin))
}

func openSource(ctx context.Context, s config.Settings, std stdio) (source.Source, error) {
	switch {
	case len(s.Command) > 0:
		src, err := source.StartExec(ctx, s.Command[0], s.Command[1:], std.err)
		if err != nil {
			return nil, apperr.New(apperr.KindInput, "source", err)
		}
		return src, nil
	case s.File != "":
		src, err := source.OpenFile(s.File, s.Follow)
		if err != nil {
			return nil, apperr.New(apperr.KindInput, "source", err)
		}
		return src, nil
	default:
		return source.StdinFrom(std.in), nil
	}
}

// settle turns the outcome of a run into the command's error. An interrupt is a normal
// ending; only errors joined to it are returned.
func settle(log *slog.Logger, src source.Source, err error) error {
	if err == nil {
		if es, ok := src.(*source.ExecSource); ok {
			if xerr := es.ExitErr(); xerr != nil {
				log.Warn("command exited", "command", es.Name(), "err", xerr)
			}
		}
		return nil
	}
	if !errors.Is(err, apperr.ErrInterrupted) {
		return err
	}

	log.Info("run interrupted")
	var rest []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !errors.Is(e, apperr.ErrInterrupted) {
				rest = append(rest, e)
			}
		}
	}
	return errors.Join(rest...)
}
