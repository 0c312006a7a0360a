// Package summary renders the end-of-run summary line.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Geun-Oh/timeln/internal/timefmt"
)

// Style selects the summary layout. The set is fixed.
type Style int

const (
	// Simple renders "[Processed Lines: L, Matches: M, Total Time: T]".
	Simple Style = iota
	// Detailed adds the average time per line.
	Detailed
)

// ParseStyle converts "simple" or "detailed" into a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return Simple, nil
	case "detailed":
		return Detailed, nil
	default:
		return Simple, fmt.Errorf("unknown summary style %q (want simple or detailed)", name)
	}
}

// String returns the style name.
func (s Style) String() string {
	if s == Detailed {
		return "detailed"
	}
	return "simple"
}

// Summarize renders the totals of a run.
func (s Style) Summarize(lines, matches uint64, total time.Duration, format timefmt.Format) string {
	switch s {
	case Detailed:
		return fmt.Sprintf("Processed %s lines in %s with %s matches. Average time per line: %s",
			humanize.Comma(int64(lines)),
			format.Duration(total),
			humanize.Comma(int64(matches)),
			format.Duration(Average(total, lines)),
		)
	default:
		return fmt.Sprintf("[Processed Lines: %d, Matches: %d, Total Time: %s]", lines, matches, format.Duration(total))
	}
}

// Average returns total/lines, or zero when no lines were read.
func Average(total time.Duration, lines uint64) time.Duration {
	if lines == 0 {
		return 0
	}
	return time.Duration(uint64(total) / lines)
}
