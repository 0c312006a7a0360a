package filter

import (
	"fmt"
	"regexp"
)

// RegexFilter matches lines against a pre-compiled regular expression.
type RegexFilter struct {
	pattern string
	re      *regexp.Regexp
}

// NewRegexFilter expands %{NAME} macros in pattern and compiles the result.
// Returns an error if a macro is unknown or the expression is invalid.
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	expanded, err := expandMacros(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expanded)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return &RegexFilter{pattern: pattern, re: re}, nil
}

// Find returns the location of the leftmost match.
func (f *RegexFilter) Find(text string) []int {
	return f.re.FindStringIndex(text)
}

// Name returns the filter description.
func (f *RegexFilter) Name() string {
	return "regex:" + f.pattern
}
