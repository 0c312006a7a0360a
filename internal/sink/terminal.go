package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// TerminalSink writes annotated lines and the summary as text.
type TerminalSink struct {
	w         io.Writer
	annotator *annotate.Annotator
}

// NewTerminalSink creates a sink that writes to w (os.Stdout if nil).
func NewTerminalSink(w io.Writer, a *annotate.Annotator) *TerminalSink {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalSink{w: w, annotator: a}
}

// Write outputs one annotated line in a single write.
func (s *TerminalSink) Write(r timing.Record) error {
	line := s.annotator.Annotate(r.Text, r.Match, r.Elapsed, r.Delta)
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// Summary outputs the summary line, colored when the annotator's palette is.
func (s *TerminalSink) Summary(r Report) error {
	_, err := fmt.Fprintln(s.w, s.annotator.Palette().Summary(r.Text))
	return err
}

// Flush is a no-op for terminal output.
func (s *TerminalSink) Flush() error { return nil }

// Close is a no-op for terminal output.
func (s *TerminalSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *TerminalSink) Name() string { return "terminal" }
