// Package entry defines the Line type passed from a source to the processing loop.
package entry

import (
	"strings"
	"time"
)

// Line is one line read from the input.
type Line struct {
	Seq   uint64    // 1-based position in the input
	Text  string    // content without its line terminator
	Bytes int       // bytes consumed from the input, terminator included
	At    time.Time // when the line was read
}

// TrimTerminator strips a trailing "\n" or "\r\n".
func TrimTerminator(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
