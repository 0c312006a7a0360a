package source

import (
	"io"
	"os"
)

// StdinSource reads lines from os.Stdin (pipe mode).
type StdinSource struct {
	lineReader
}

// NewStdinSource creates a source that reads from stdin.
func NewStdinSource() *StdinSource {
	return StdinFrom(os.Stdin)
}

// StdinFrom creates a stdin-style source over r.
func StdinFrom(r io.Reader) *StdinSource {
	return &StdinSource{lineReader: newLineReader(r)}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Close is a no-op; stdin belongs to the process.
func (s *StdinSource) Close() error { return nil }
