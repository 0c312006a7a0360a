package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Geun-Oh/timeln/internal/buffer"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/sink"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// Sink feeds timed records to the dashboard. It keeps them in a ring, tracks the rate of
// qualifying lines and flags slow ones, then notifies the attached program.
type Sink struct {
	ring  *buffer.Ring
	rate  *monitor.Rate
	slow  *monitor.Slow
	start time.Time

	mu   sync.Mutex
	send func(tea.Msg)
}

// NewSink creates a dashboard sink. start is the run's start time; record elapsed times
// are relative to it.
func NewSink(ring *buffer.Ring, rate *monitor.Rate, slow *monitor.Slow, start time.Time) *Sink {
	if ring == nil {
		ring = buffer.NewRing(0)
	}
	if rate == nil {
		rate = monitor.NewRate(0, 0)
	}
	if slow == nil {
		slow = monitor.NewSlow(0)
	}
	return &Sink{ring: ring, rate: rate, slow: slow, start: start}
}

// Attach sets where notifications go, usually (*tea.Program).Send.
// Records written before Attach are kept but not announced.
func (s *Sink) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *Sink) notify(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *Sink) Write(r timing.Record) error {
	s.ring.Push(r)
	at := s.start.Add(r.Elapsed)
	spiking := s.rate.Record(at)
	slow := s.slow.Check(r.Seq, r.Delta)

	s.notify(RecordMsg(r))
	if spiking {
		s.notify(SpikeMsg{Rate: s.rate.PerSecond(at)})
	}
	if slow {
		s.notify(SlowMsg{Seq: r.Seq, Delta: r.Delta})
	}
	return nil
}

// Summary is a no-op; the summary is printed after the dashboard closes.
func (s *Sink) Summary(sink.Report) error { return nil }

func (s *Sink) Flush() error { return nil }
func (s *Sink) Close() error { return nil }
func (s *Sink) Name() string { return "dashboard" }

// Ring returns the buffered records.
func (s *Sink) Ring() *buffer.Ring { return s.ring }

// Rate returns the rate tracker.
func (s *Sink) Rate() *monitor.Rate { return s.rate }

// Slow returns the slow-line watcher.
func (s *Sink) Slow() *monitor.Slow { return s.slow }
