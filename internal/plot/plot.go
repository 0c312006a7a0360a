// Package plot writes delta and elapsed time charts for a finished run.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Geun-Oh/timeln/internal/timing"
)

// ErrNoData is returned by Write when there is nothing to chart.
var ErrNoData = errors.New("plot: no snapshots to chart")

// Format is the chart file format.
type Format int

const (
	SVG Format = iota
	PNG
)

// ParseFormat converts "svg" or "png" into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	default:
		return SVG, fmt.Errorf("unknown plot format %q (want svg or png)", name)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == PNG {
		return "png"
	}
	return "svg"
}

var (
	red  = color.RGBA{R: 220, A: 255}
	blue = color.RGBA{B: 220, A: 255}
)

// Writer renders the two charts of a run into a directory.
type Writer struct {
	Dir    string
	Format Format
	Width  vg.Length
	Height vg.Length
}

// NewWriter creates a Writer for dir ("" means the working directory).
func NewWriter(dir string, format Format) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir, Format: format, Width: 6 * vg.Inch, Height: 4.5 * vg.Inch}
}

// Series splits snapshots into delta and elapsed values in seconds, in line order.
func Series(snaps []timing.Snapshot) (deltas, elapsed []float64) {
	deltas = make([]float64, len(snaps))
	elapsed = make([]float64, len(snaps))
	for i, s := range snaps {
		deltas[i] = s.Delta.Seconds()
		elapsed[i] = s.Elapsed.Seconds()
	}
	return deltas, elapsed
}

// Write renders deltas.<ext> and elapsed.<ext> and returns their paths.
func (w *Writer) Write(snaps []timing.Snapshot) ([]string, error) {
	if len(snaps) == 0 {
		return nil, ErrNoData
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("plot: create dir %s: %w", w.Dir, err)
	}

	deltas, elapsed := Series(snaps)
	charts := []struct {
		name   string
		title  string
		ylabel string
		values []float64
		color  color.Color
	}{
		{"deltas", "Line number vs Time delta", "Time delta (seconds)", deltas, red},
		{"elapsed", "Line number vs Time Elapsed", "Time Elapsed (seconds)", elapsed, blue},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(w.Dir, c.name+"."+w.Format.Ext())
		if err := w.render(path, c.title, c.ylabel, c.values, c.color); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) render(path, title, ylabel string, values []float64, col color.Color) error {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Line number"
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.Y.Min = 0

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot: %s: %w", title, err)
	}
	line.Color = col

	p.Add(plotter.NewGrid(), line)
	if err := p.Save(w.Width, w.Height, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}
