package timing

import (
	"errors"
	"sync"

	"github.com/Geun-Oh/timeln/internal/apperr"
)

// ErrQueueClosed is returned by Send once the queue has been drained for finalize.
var ErrQueueClosed = errors.New("snapshot queue closed")

// Queue is an unbounded FIFO of snapshots with one producer and one draining consumer.
// Send never blocks. Drain takes everything queued so far and closes the queue.
type Queue struct {
	mu     sync.Mutex
	items  []Snapshot
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: make([]Snapshot, 0, 256)}
}

// Send appends s. Fails with a channel error after Drain.
func (q *Queue) Send(s Snapshot) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return apperr.New(apperr.KindChannel, "timing: send snapshot", ErrQueueClosed)
	}
	q.items = append(q.items, s)
	return nil
}

// Drain returns every queued snapshot in send order and closes the queue.
// Later calls return nil.
func (q *Queue) Drain() []Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	q.closed = true
	return items
}

// Len returns the number of queued snapshots.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether the queue has been drained.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
