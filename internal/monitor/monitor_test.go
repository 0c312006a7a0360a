package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyCountsInOrder(t *testing.T) {
	tally := NewTally()
	defer tally.Stop()

	for i := 0; i < 10; i++ {
		tally.AddLine()
		if i%3 == 0 {
			tally.AddMatch()
		}
	}

	c, err := tally.Read()
	require.NoError(t, err)
	assert.Equal(t, Counters{Lines: 10, Matches: 4}, c)
	assert.Equal(t, c, tally.LastKnown())
}

func TestTallyConcurrentReadersSeeMonotonicValues(t *testing.T) {
	tally := NewTally()
	defer tally.Stop()

	const n = 500
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var prev Counters
			for i := 0; i < n; i++ {
				c, err := tally.Read()
				if !assert.NoError(t, err) {
					return
				}
				assert.GreaterOrEqual(t, c.Lines, prev.Lines)
				assert.GreaterOrEqual(t, c.Matches, prev.Matches)
				assert.LessOrEqual(t, c.Matches, c.Lines)
				prev = c
			}
		}()
	}

	for i := 0; i < n; i++ {
		tally.AddLine()
		tally.AddMatch()
	}
	wg.Wait()

	c, err := tally.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), c.Lines)
	assert.Equal(t, uint64(n), c.Matches)
}

func TestTallyReadAfterStopReturnsLastKnown(t *testing.T) {
	tally := NewTally()
	tally.AddLine()
	tally.AddLine()
	tally.AddMatch()
	tally.Stop()
	tally.Stop()

	c, err := tally.Read()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindStateAccess))
	assert.ErrorIs(t, err, ErrTallyStopped)
	assert.Equal(t, Counters{Lines: 2, Matches: 1}, c)

	// Updates after stop are dropped rather than blocking.
	tally.AddLine()
	assert.Equal(t, uint64(2), tally.LastKnown().Lines)
}

func TestRateBurst(t *testing.T) {
	r := NewRate(10*time.Second, 3)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, r.Record(t0))
	assert.False(t, r.Record(t0.Add(time.Second)))
	assert.False(t, r.Record(t0.Add(2*time.Second)))

	var burst bool
	for i := 0; i < 5; i++ {
		burst = r.Record(t0.Add(3 * time.Second))
	}
	assert.True(t, burst)
}

func TestRatePerSecondWindow(t *testing.T) {
	r := NewRate(10*time.Second, 0)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		r.Record(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.InDelta(t, 2.0, r.PerSecond(t0.Add(2*time.Second)), 0.001)

	// Everything ages out of the window.
	assert.Equal(t, 0.0, r.PerSecond(t0.Add(time.Minute)))
}

func TestNewRateDefaults(t *testing.T) {
	r := NewRate(0, -1)
	assert.Equal(t, 10*time.Second, r.window)
	assert.Equal(t, 3.0, r.threshold)
}

func TestSlowFlagsThreshold(t *testing.T) {
	s := NewSlow(100 * time.Millisecond)

	assert.False(t, s.Check(1, 20*time.Millisecond))
	assert.True(t, s.Check(2, 100*time.Millisecond))
	assert.False(t, s.Check(3, 5*time.Millisecond))
	assert.True(t, s.Check(4, 300*time.Millisecond))

	assert.Equal(t, 2, s.Flagged())
	assert.Equal(t, 5*time.Millisecond, s.Last())
	seq, worst := s.Worst()
	assert.Equal(t, uint64(4), seq)
	assert.Equal(t, 300*time.Millisecond, worst)
}

func TestSlowDisabledStillTracksWorst(t *testing.T) {
	s := NewSlow(0)
	seq, _ := s.Worst()
	assert.Zero(t, seq)

	assert.False(t, s.Check(1, 0))
	assert.False(t, s.Check(2, time.Hour))
	assert.Zero(t, s.Flagged())
	seq, worst := s.Worst()
	assert.Equal(t, uint64(2), seq)
	assert.Equal(t, time.Hour, worst)
}
