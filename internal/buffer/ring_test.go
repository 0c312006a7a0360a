package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/timeln/internal/timing"
)

func seqs(rs []timing.Record) []uint64 {
	out := make([]uint64, len(rs))
	for i, r := range rs {
		out[i] = r.Seq
	}
	return out
}

func TestRingBelowCapacity(t *testing.T) {
	r := NewRing(4)
	_, ok := r.Last()
	assert.False(t, ok)

	r.Push(timing.Record{Seq: 1})
	r.Push(timing.Record{Seq: 2})

	assert.Equal(t, []uint64{1, 2}, seqs(r.Snapshot()))
	assert.Equal(t, 2, r.Len())
	assert.Zero(t, r.Dropped())
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(2), last.Seq)
}

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing(3)
	for i := uint64(1); i <= 7; i++ {
		r.Push(timing.Record{Seq: i})
	}

	assert.Equal(t, []uint64{5, 6, 7}, seqs(r.Snapshot()))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, uint64(4), r.Dropped())
	last, _ := r.Last()
	assert.Equal(t, uint64(7), last.Seq)
}

func TestRingDefaultCapacity(t *testing.T) {
	assert.Equal(t, 1000, NewRing(0).Cap())
}

func TestRingConcurrentPush(t *testing.T) {
	r := NewRing(50)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Push(timing.Record{Seq: uint64(i)})
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
	assert.Equal(t, uint64(750), r.Dropped())
}
