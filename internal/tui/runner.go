package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/pipeline"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// RunConfig holds what the dashboard run needs. Processor must write to Sink; Finalizer
// should write to a sink that outlives the dashboard, such as stdout.
type RunConfig struct {
	Processor *pipeline.Processor
	Finalizer *pipeline.Finalizer
	Sink      *Sink
	Tally     *monitor.Tally
	Tracker   *timing.Tracker
	Annotator *annotate.Annotator
	Source    string
	Options   []tea.ProgramOption // defaults to the alt screen
}

// Run shows the dashboard while the processor runs and finalizes after the user quits.
// Quitting before end of stream counts as an interrupt, as does cancelling ctx.
// This function blocks until the dashboard closes.
func Run(ctx context.Context, cfg *RunConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := cfg.Options
	if opts == nil {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	model := NewModel(cfg.Sink, cfg.Tally, cfg.Tracker, cfg.Annotator, cfg.Source)
	program := tea.NewProgram(model, opts...)
	cfg.Sink.Attach(program.Send)

	var (
		reason  pipeline.Reason
		procErr error
	)
	processed := make(chan struct{})
	go func() {
		defer close(processed)
		reason, procErr = cfg.Processor.Process(ctx)
		program.Send(DoneMsg{Reason: reason, Err: procErr})
		if reason == pipeline.Interrupt {
			program.Quit()
		}
	}()

	_, runErr := program.Run()
	interrupted := ctx.Err() != nil

	// Closing the dashboard stops processing if it is still going.
	cancel()
	<-processed

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !interrupted {
		return fmt.Errorf("tui: run: %w", runErr)
	}
	if procErr != nil {
		return procErr
	}

	_, err := cfg.Finalizer.Finalize(reason)
	if reason == pipeline.Interrupt {
		return errors.Join(apperr.ErrInterrupted, err)
	}
	return err
}
