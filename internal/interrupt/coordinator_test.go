package interrupt

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinalizer struct {
	started   atomic.Bool
	emergency atomic.Int32
}

func (f *fakeFinalizer) Started() bool { return f.started.Load() }

func (f *fakeFinalizer) Emergency() error {
	if f.started.CompareAndSwap(false, true) {
		f.emergency.Add(1)
	}
	return nil
}

func newTestCoordinator(t *testing.T, fin Finalizer) (*Coordinator, chan int) {
	t.Helper()
	exits := make(chan int, 4)
	c := New(fin, nil, WithoutSignals(), WithExit(func(code int) { exits <- code }))
	return c, exits
}

func TestFirstTriggerCancels(t *testing.T) {
	fin := &fakeFinalizer{}
	c, exits := newTestCoordinator(t, fin)

	ctx, stop, err := c.Register(context.Background())
	require.NoError(t, err)
	defer stop()

	c.Trigger()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled")
	}
	assert.Empty(t, exits)
	assert.Equal(t, int32(0), fin.emergency.Load())
}

func TestSecondTriggerFinalizesAndExits(t *testing.T) {
	fin := &fakeFinalizer{}
	c, exits := newTestCoordinator(t, fin)

	_, stop, err := c.Register(context.Background())
	require.NoError(t, err)
	defer stop()

	c.Trigger()
	c.Trigger()

	select {
	case code := <-exits:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("no exit")
	}
	assert.Equal(t, int32(1), fin.emergency.Load())
}

func TestSecondTriggerAfterFinalizeStartedExitsImmediately(t *testing.T) {
	fin := &fakeFinalizer{}
	fin.started.Store(true)
	c, exits := newTestCoordinator(t, fin)

	_, stop, err := c.Register(context.Background())
	require.NoError(t, err)
	defer stop()

	c.Trigger()
	c.Trigger()

	assert.Equal(t, 0, <-exits)
	assert.Equal(t, int32(0), fin.emergency.Load())
}

func TestRegisterTwice(t *testing.T) {
	c, _ := newTestCoordinator(t, &fakeFinalizer{})

	_, stop, err := c.Register(context.Background())
	require.NoError(t, err)
	defer stop()

	_, _, err = c.Register(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestStopCancelsAndUnblocksTrigger(t *testing.T) {
	c, exits := newTestCoordinator(t, &fakeFinalizer{})

	ctx, stop, err := c.Register(context.Background())
	require.NoError(t, err)
	stop()
	stop()

	assert.Error(t, ctx.Err())
	for i := 0; i < 5; i++ {
		c.Trigger()
	}
	assert.Empty(t, exits)
}
