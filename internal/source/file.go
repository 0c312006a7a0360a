package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Geun-Oh/timeln/internal/entry"
)

// FileSource reads lines from a file, optionally following new writes (tail -f).
type FileSource struct {
	path    string
	follow  bool
	poll    time.Duration
	f       *os.File
	r       *bufio.Reader
	partial strings.Builder
	closed  atomic.Bool
}

// OpenFile opens path for reading.
// If follow is true, end of file is never reported; the source polls for appended lines
// until Close.
func OpenFile(path string, follow bool) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return &FileSource{
		path:   path,
		follow: follow,
		poll:   100 * time.Millisecond,
		f:      f,
		r:      bufio.NewReaderSize(f, 64*1024),
	}, nil
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// ReadLine returns the next complete line. When following, a partial last line is held
// back until its newline arrives.
func (s *FileSource) ReadLine() (int, string, error) {
	for {
		chunk, err := s.r.ReadString('\n')
		s.partial.WriteString(chunk)
		if err == nil {
			return s.take()
		}
		if !errors.Is(err, io.EOF) {
			if s.closed.Load() {
				return s.take()
			}
			return 0, "", err
		}
		if !s.follow || s.closed.Load() {
			return s.take()
		}
		time.Sleep(s.poll)
	}
}

func (s *FileSource) take() (int, string, error) {
	line := s.partial.String()
	s.partial.Reset()
	return len(line), entry.TrimTerminator(line), nil
}

// Close stops following and closes the file.
func (s *FileSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.f.Close()
}
