package monitor

import (
	"sync"
	"time"
)

// Slow watches qualifying-line deltas. It keeps the largest delta seen and counts the lines
// whose delta reaches a threshold.
type Slow struct {
	mu        sync.Mutex
	threshold time.Duration // <= 0 disables flagging
	flagged   int
	last      time.Duration
	worst     time.Duration
	worstSeq  uint64
}

// NewSlow creates a watcher. A non-positive threshold only tracks the largest delta.
func NewSlow(threshold time.Duration) *Slow {
	return &Slow{threshold: threshold}
}

// Check records the delta of line seq and reports whether it reached the threshold.
func (s *Slow) Check(seq uint64, delta time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = delta
	if delta > s.worst || s.worstSeq == 0 {
		s.worst = delta
		s.worstSeq = seq
	}
	if s.threshold > 0 && delta >= s.threshold {
		s.flagged++
		return true
	}
	return false
}

// Threshold returns the flagging threshold.
func (s *Slow) Threshold() time.Duration { return s.threshold }

// Flagged returns how many lines reached the threshold.
func (s *Slow) Flagged() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagged
}

// Last returns the most recent delta.
func (s *Slow) Last() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Worst returns the largest delta and the line it belongs to; seq is 0 before any Check.
func (s *Slow) Worst() (seq uint64, delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worstSeq, s.worst
}
