// Package interrupt turns SIGINT/SIGTERM into cooperative cancellation of a run.
package interrupt

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrAlreadyRegistered is returned by a second Register call.
var ErrAlreadyRegistered = errors.New("interrupt: coordinator already registered")

// Finalizer is the part of the run's finalizer the coordinator drives.
type Finalizer interface {
	Started() bool
	Emergency() error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithExit replaces os.Exit.
func WithExit(fn func(code int)) Option {
	return func(c *Coordinator) { c.exit = fn }
}

// WithoutSignals skips subscribing to process signals; deliveries come only from Trigger.
func WithoutSignals() Option {
	return func(c *Coordinator) { c.subscribe = false }
}

// Coordinator owns interrupt handling for one run. The first signal cancels the context
// returned by Register and lets the processing loop finalize. A later signal exits at once,
// finalizing first from the coordinator goroutine if nobody has started to.
type Coordinator struct {
	fin       Finalizer
	log       *slog.Logger
	exit      func(int)
	subscribe bool

	signals    chan os.Signal
	quit       chan struct{}
	registered atomic.Bool
	stop       sync.Once
}

// New creates a Coordinator for fin.
func New(fin Finalizer, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Coordinator{
		fin:       fin,
		log:       logger,
		exit:      os.Exit,
		subscribe: true,
		signals:   make(chan os.Signal, 2),
		quit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register subscribes to SIGINT and SIGTERM and returns a context cancelled by the first
// one. The returned stop func unsubscribes and ends the coordinator goroutine.
// Register may be called once.
func (c *Coordinator) Register(ctx context.Context) (context.Context, func(), error) {
	if !c.registered.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadyRegistered
	}

	ctx, cancel := context.WithCancel(ctx)
	if c.subscribe {
		signal.Notify(c.signals, os.Interrupt, syscall.SIGTERM)
	}
	go c.loop(cancel)

	stop := func() {
		c.stop.Do(func() {
			if c.subscribe {
				signal.Stop(c.signals)
			}
			close(c.quit)
			cancel()
		})
	}
	return ctx, stop, nil
}

// Trigger delivers an interrupt as if the process had received SIGINT.
func (c *Coordinator) Trigger() {
	select {
	case c.signals <- os.Interrupt:
	case <-c.quit:
	}
}

func (c *Coordinator) loop(cancel context.CancelFunc) {
	received := 0
	for {
		select {
		case <-c.quit:
			return
		case sig := <-c.signals:
			select {
			case <-c.quit:
				return
			default:
			}
			received++
			if received == 1 {
				c.log.Warn("interrupted, finishing run", "signal", sig)
				cancel()
				continue
			}

			if c.fin.Started() {
				c.log.Warn("interrupted again, exiting", "signal", sig)
				c.exit(0)
				return
			}
			c.log.Warn("interrupted again, finalizing now", "signal", sig)
			if err := c.fin.Emergency(); err != nil {
				c.log.Error("emergency finalize", "err", err)
			}
			c.exit(0)
			return
		}
	}
}
