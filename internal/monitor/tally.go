// Package monitor owns the run's line and match counters and derives live rates from them.
package monitor

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Geun-Oh/timeln/internal/apperr"
)

// ErrTallyStopped is wrapped into the state access error returned by Read after Stop.
var ErrTallyStopped = errors.New("tally owner stopped")

// Counters is a point-in-time copy of the run totals. Matches never exceeds Lines.
type Counters struct {
	Lines   uint64
	Matches uint64
}

type tallyOp int

const (
	opLine tallyOp = iota
	opMatch
)

// Tally is the single owner of the run counters. Updates and reads are messages served in
// order by one goroutine, so a Read issued after an Add from the same goroutine observes it.
type Tally struct {
	ops   chan tallyOp
	reads chan chan Counters
	quit  chan struct{}
	done  chan struct{}

	// last holds the most recently published counters; Read falls back to it
	// once the owner is gone.
	last atomic.Pointer[Counters]
	stop sync.Once
}

// NewTally starts the owner goroutine.
func NewTally() *Tally {
	t := &Tally{
		ops:   make(chan tallyOp),
		reads: make(chan chan Counters),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	t.last.Store(&Counters{})
	go t.run()
	return t
}

func (t *Tally) run() {
	defer close(t.done)

	var c Counters
	for {
		select {
		case op := <-t.ops:
			switch op {
			case opLine:
				c.Lines++
			case opMatch:
				c.Matches++
			}
			snap := c
			t.last.Store(&snap)
		case reply := <-t.reads:
			reply <- c
		case <-t.quit:
			return
		}
	}
}

// AddLine counts one read line. Dropped once the owner has stopped.
func (t *Tally) AddLine() { t.send(opLine) }

// AddMatch counts one line that passed the filter. Dropped once the owner has stopped.
func (t *Tally) AddMatch() { t.send(opMatch) }

func (t *Tally) send(op tallyOp) {
	select {
	case t.ops <- op:
	case <-t.done:
	}
}

// Read returns the current counters. If the owner is unreachable it returns the last
// published values together with a state access error; the values are still usable.
func (t *Tally) Read() (Counters, error) {
	reply := make(chan Counters, 1)
	select {
	case t.reads <- reply:
		return <-reply, nil
	case <-t.done:
		return *t.last.Load(), apperr.New(apperr.KindStateAccess, "monitor: read counters", ErrTallyStopped)
	}
}

// LastKnown returns the most recently published counters without contacting the owner.
func (t *Tally) LastKnown() Counters {
	return *t.last.Load()
}

// Stop ends the owner goroutine. Safe to call more than once.
func (t *Tally) Stop() {
	t.stop.Do(func() { close(t.quit) })
	<-t.done
}
