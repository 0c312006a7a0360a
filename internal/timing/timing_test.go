package timing

import (
	"sync"
	"testing"
	"time"

	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepClock(start time.Time, step time.Duration) Clock {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

func TestTrackerFirstDeltaEqualsElapsed(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(stepClock(t0, time.Second))

	s := tr.Mark(t0.Add(250 * time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, s.Delta)
	assert.Equal(t, s.Delta, s.Elapsed)
}

func TestTrackerDeltasSumToElapsed(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(func() time.Time { return t0 })

	offsets := []time.Duration{10 * time.Millisecond, 40 * time.Millisecond, 45 * time.Millisecond, 2 * time.Second}
	var sum time.Duration
	var last Snapshot
	for _, off := range offsets {
		last = tr.Mark(t0.Add(off))
		sum += last.Delta
	}
	assert.Equal(t, last.Elapsed, sum)
	assert.Equal(t, 2*time.Second, last.Elapsed)
}

func TestTrackerElapsed(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(stepClock(t0, 3*time.Second))

	assert.Equal(t, t0, tr.Start())
	assert.Equal(t, 3*time.Second, tr.Elapsed())
}

func TestQueueFIFOAndDrain(t *testing.T) {
	q := NewQueue()
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Send(Snapshot{Delta: time.Duration(i)}))
	}
	assert.Equal(t, 5, q.Len())

	got := q.Drain()
	require.Len(t, got, 5)
	for i, s := range got {
		assert.Equal(t, time.Duration(i+1), s.Delta)
	}
	assert.True(t, q.Closed())
	assert.Nil(t, q.Drain())
}

func TestQueueSendAfterDrainFails(t *testing.T) {
	q := NewQueue()
	q.Drain()

	err := q.Send(Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.True(t, apperr.Is(err, apperr.KindChannel))
}

func TestQueueConcurrentDrain(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if err := q.Send(Snapshot{Delta: time.Duration(i)}); err != nil {
				return
			}
		}
	}()

	drained := q.Drain()
	<-done

	// Whatever made it in before the drain is in order; nothing is duplicated.
	for i, s := range drained {
		assert.Equal(t, time.Duration(i), s.Delta)
	}
	assert.Equal(t, 0, q.Len())
}
