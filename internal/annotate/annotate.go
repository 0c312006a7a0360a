// Package annotate formats a timed line for output.
package annotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/Geun-Oh/timeln/internal/timefmt"
)

// Style selects the annotation prefix layout.
type Style int

const (
	// Simple renders "[time: E, delta: D] line".
	Simple Style = iota
	// Unicode renders "[Τ: E, Δ: D] line".
	Unicode
)

// ParseStyle converts "simple" or "unicode" into a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return Simple, nil
	case "unicode":
		return Unicode, nil
	default:
		return Simple, fmt.Errorf("unknown annotation style %q (want simple or unicode)", name)
	}
}

// String returns the style name.
func (s Style) String() string {
	if s == Unicode {
		return "unicode"
	}
	return "simple"
}

// Annotator prefixes lines with their elapsed and delta times. It holds no per-line state.
type Annotator struct {
	style   Style
	format  timefmt.Format
	palette *Palette
}

// New creates an Annotator. A nil palette means no color.
func New(style Style, format timefmt.Format, palette *Palette) *Annotator {
	if palette == nil {
		palette = NewPalette(false)
	}
	return &Annotator{style: style, format: format, palette: palette}
}

// Annotate formats line with its times. match, when non-nil and color is on, is the
// [start, end) span of the first match; every occurrence of that text is highlighted.
func (a *Annotator) Annotate(line string, match []int, elapsed, delta time.Duration) string {
	return a.Prefix(elapsed, delta) + " " + a.highlight(line, match)
}

// Prefix renders only the bracketed time annotation.
func (a *Annotator) Prefix(elapsed, delta time.Duration) string {
	e, d := a.format.Duration(elapsed), a.format.Duration(delta)
	var prefix string
	switch a.style {
	case Unicode:
		prefix = fmt.Sprintf("[Τ: %s, Δ: %s]", e, d)
	default:
		prefix = fmt.Sprintf("[time: %s, delta: %s]", e, d)
	}
	return a.palette.Time(prefix)
}

func (a *Annotator) highlight(line string, match []int) string {
	if !a.palette.Enabled() || len(match) != 2 {
		return line
	}
	start, end := match[0], match[1]
	if start < 0 || end > len(line) || start >= end {
		return line
	}
	text := line[start:end]
	return strings.ReplaceAll(line, text, a.palette.Match(text))
}

// Palette returns the annotator's palette.
func (a *Annotator) Palette() *Palette { return a.palette }

// Format returns the annotator's time format.
func (a *Annotator) Format() timefmt.Format { return a.format }
