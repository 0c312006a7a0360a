// Package source defines the Source interface and the feed that pumps lines into the pipeline.
package source

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/entry"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// Source reads one line at a time.
// ReadLine returns the number of bytes consumed and the line without its terminator.
// Zero bytes with a nil error signals end of stream.
type Source interface {
	ReadLine() (int, string, error)

	// Name returns a human-readable identifier for this source.
	Name() string

	// Close releases the underlying input.
	Close() error
}

// lineReader implements ReadLine over a buffered reader; the concrete sources embed it.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) lineReader {
	return lineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (l lineReader) ReadLine() (int, string, error) {
	s, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A final line without a newline is still a line.
			return len(s), entry.TrimTerminator(s), nil
		}
		return 0, "", err
	}
	return len(s), entry.TrimTerminator(s), nil
}

// Feed runs a Source on its own goroutine and delivers stamped lines in input order.
type Feed struct {
	lines chan entry.Line
	done  chan struct{}
	err   error
	seq   atomic.Uint64
	once  sync.Once
}

// Pump starts reading src. Each line is stamped with clock at read time.
// The channel closes at end of stream, on a read error (see Err) or when ctx is cancelled.
// A read blocked inside src is abandoned on cancellation; the goroutine exits with the process.
func Pump(ctx context.Context, src Source, clock timing.Clock) *Feed {
	if clock == nil {
		clock = timing.SystemClock
	}
	f := &Feed{
		lines: make(chan entry.Line, 256),
		done:  make(chan struct{}),
	}

	go func() {
		defer f.finish()

		for {
			n, text, err := src.ReadLine()
			if err != nil {
				f.err = apperr.New(apperr.KindInput, "source: read "+src.Name(), err)
				return
			}
			if n == 0 {
				return
			}

			line := entry.Line{
				Seq:   f.seq.Add(1),
				Text:  text,
				Bytes: n,
				At:    clock(),
			}
			select {
			case f.lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	return f
}

func (f *Feed) finish() {
	f.once.Do(func() {
		close(f.done)
		close(f.lines)
	})
}

// Lines returns the channel of read lines.
func (f *Feed) Lines() <-chan entry.Line { return f.lines }

// Err returns the read error that ended the feed, if any. Valid once Lines is closed.
func (f *Feed) Err() error {
	<-f.done
	return f.err
}

// Read returns the number of lines read so far.
func (f *Feed) Read() uint64 { return f.seq.Load() }
