// Package timefmt renders durations for annotations and summaries.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Format selects how durations are rendered. The set is fixed.
type Format int

const (
	// Seconds renders "5.50 s".
	Seconds Format = iota
	// Milliseconds renders "5500.00 ms".
	Milliseconds
	// MinutesSeconds renders "2m 5s", truncating sub-second precision.
	MinutesSeconds
)

// Parse converts a format name ("s", "ms", "m") into a Format. Case-insensitive.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "s", "sec", "seconds":
		return Seconds, nil
	case "ms", "millis", "milliseconds":
		return Milliseconds, nil
	case "m", "min", "minutes":
		return MinutesSeconds, nil
	default:
		return Seconds, fmt.Errorf("unknown time format %q (want s, ms or m)", name)
	}
}

// String returns the canonical name of the format.
func (f Format) String() string {
	switch f {
	case Milliseconds:
		return "ms"
	case MinutesSeconds:
		return "m"
	default:
		return "s"
	}
}

// Duration renders d in this format.
func (f Format) Duration(d time.Duration) string {
	switch f {
	case Milliseconds:
		return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
	case MinutesSeconds:
		secs := int64(d / time.Second)
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}
