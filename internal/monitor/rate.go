package monitor

import (
	"sync"
	"time"
)

// Rate tracks qualifying lines per second over a sliding window and flags bursts.
type Rate struct {
	mu        sync.Mutex
	window    time.Duration
	buckets   []int64     // per-second counts
	seconds   []time.Time // second each bucket covers
	threshold float64     // burst multiplier over the moving average
}

// NewRate creates a rate tracker. A window under one second falls back to ten seconds and a
// non-positive threshold to 3.
func NewRate(window time.Duration, threshold float64) *Rate {
	if window < time.Second {
		window = 10 * time.Second
	}
	if threshold <= 0 {
		threshold = 3.0
	}
	return &Rate{window: window, threshold: threshold}
}

// Record counts one line seen at `at` and reports whether the current second is a burst.
func (r *Rate) Record(at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(at)

	sec := at.Truncate(time.Second)
	if n := len(r.seconds); n > 0 && r.seconds[n-1].Equal(sec) {
		r.buckets[n-1]++
	} else {
		r.buckets = append(r.buckets, 1)
		r.seconds = append(r.seconds, sec)
	}
	return r.bursting()
}

// PerSecond returns the average lines per second over the window ending at `now`.
func (r *Rate) PerSecond(now time.Time) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(now)
	var total int64
	for _, b := range r.buckets {
		total += b
	}
	return float64(total) / r.window.Seconds()
}

// prune drops buckets older than the window. Caller holds mu.
func (r *Rate) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.seconds) && r.seconds[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.buckets = r.buckets[i:]
		r.seconds = r.seconds[i:]
	}
}

// bursting compares the newest bucket to the average of the older ones. Caller holds mu.
func (r *Rate) bursting() bool {
	if len(r.buckets) < 3 {
		return false
	}
	var sum int64
	for _, b := range r.buckets[:len(r.buckets)-1] {
		sum += b
	}
	avg := float64(sum) / float64(len(r.buckets)-1)
	if avg == 0 {
		return false
	}
	return float64(r.buckets[len(r.buckets)-1]) > avg*r.threshold
}
