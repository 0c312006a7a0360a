package annotate

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette colors annotation parts. A disabled palette returns text unchanged.
// The renderer is pinned to the ANSI profile: enabled output does not depend on stdout
// being a terminal.
type Palette struct {
	enabled bool
	time    lipgloss.Style
	match   lipgloss.Style
	summary lipgloss.Style
}

// NewPalette creates a palette; with enabled false every method is the identity.
func NewPalette(enabled bool) *Palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Palette{
		enabled: enabled,
		time:    base.Foreground(lipgloss.Color("2")),
		match:   base.Foreground(lipgloss.Color("1")),
		summary: base.Foreground(lipgloss.Color("2")),
	}
}

// Enabled reports whether the palette emits escape sequences.
func (p *Palette) Enabled() bool { return p != nil && p.enabled }

// Time colors an annotation prefix.
func (p *Palette) Time(s string) string { return p.render(p.time, s) }

// Match colors a matched substring.
func (p *Palette) Match(s string) string { return p.render(p.match, s) }

// Summary colors the summary line.
func (p *Palette) Summary(s string) string { return p.render(p.summary, s) }

func (p *Palette) render(st lipgloss.Style, s string) string {
	if !p.Enabled() || s == "" {
		return s
	}
	return st.Render(s)
}
