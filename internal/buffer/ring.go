// Package buffer keeps the most recent timed lines for the dashboard.
package buffer

import (
	"sync"

	"github.com/Geun-Oh/timeln/internal/timing"
)

// Ring is a fixed-capacity circular buffer of timed records.
// When full, the oldest record is evicted. All operations are goroutine-safe.
type Ring struct {
	mu       sync.RWMutex
	records  []timing.Record
	head     int // next write position
	count    int
	capacity int
	dropped  uint64 // total evicted records
}

// NewRing creates a ring with the given capacity; non-positive means 1000.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Ring{
		records:  make([]timing.Record, capacity),
		capacity: capacity,
	}
}

// Push appends r, evicting the oldest record when full.
func (r *Ring) Push(rec timing.Record) {
	r.mu.Lock()
	r.records[r.head] = rec
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	} else {
		r.dropped++
	}
	r.mu.Unlock()
}

// Snapshot returns a copy of the buffered records, oldest first.
func (r *Ring) Snapshot() []timing.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]timing.Record, r.count)
	if r.count < r.capacity {
		copy(out, r.records[:r.count])
	} else {
		n := copy(out, r.records[r.head:])
		copy(out[n:], r.records[:r.head])
	}
	return out
}

// Last returns the most recent record.
func (r *Ring) Last() (timing.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return timing.Record{}, false
	}
	return r.records[(r.head-1+r.capacity)%r.capacity], true
}

// Len returns the number of buffered records.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Dropped returns how many records were evicted.
func (r *Ring) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return r.capacity }
