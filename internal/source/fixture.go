package source

import "strings"

// FixtureSource serves fixed in-memory text. Used by tests and examples.
type FixtureSource struct {
	lineReader
}

// NewFixtureSource creates a source over text.
func NewFixtureSource(text string) *FixtureSource {
	return &FixtureSource{lineReader: newLineReader(strings.NewReader(text))}
}

// Name returns the source identifier.
func (s *FixtureSource) Name() string {
	return "fixture"
}

// Close is a no-op.
func (s *FixtureSource) Close() error { return nil }
