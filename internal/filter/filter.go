// Package filter decides which lines are timed and where their match lies.
package filter

import (
	"github.com/Geun-Oh/timeln/internal/apperr"
)

// Filter locates the first match in a line.
type Filter interface {
	// Find returns the [start, end) byte offsets of the first match, or nil.
	Find(text string) []int

	// Name returns a human-readable description of this filter.
	Name() string
}

// New builds the filter for pattern. With fixed set the pattern is a literal keyword;
// otherwise it is a regular expression in which %{NAME} macros are expanded first.
// An empty pattern is still a filter: it matches every line with an empty span.
func New(pattern string, fixed bool) (Filter, error) {
	if fixed {
		return NewKeywordFilter(pattern), nil
	}
	f, err := NewRegexFilter(pattern)
	if err != nil {
		return nil, apperr.New(apperr.KindPattern, "filter: compile", err)
	}
	return f, nil
}
