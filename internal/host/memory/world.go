// Package memory is an in-process host: worlds that each own a single goroutine, with player
// entities whose components may only be touched from that goroutine.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrWorldClosed is returned when work is submitted to a closed world.
var ErrWorldClosed = errors.New("world closed")

// Work runs on the world goroutine.
type Work func()

// World serializes all work on its entities through one goroutine.
type World struct {
	name      string
	workQueue chan Work

	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewWorld creates a world and starts its goroutine. It stops when ctx is cancelled or
// Close is called.
func NewWorld(ctx context.Context, name string, queueSize int) *World {
	if queueSize <= 0 {
		queueSize = 64
	}
	w := &World{
		name:      name,
		workQueue: make(chan Work, queueSize),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

// Name returns the world name.
func (w *World) Name() string {
	return w.name
}

// Do queues work and waits until it has run.
func (w *World) Do(work Work) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		work()
	}

	select {
	case <-w.closing:
		return ErrWorldClosed
	case <-w.done:
		return ErrWorldClosed
	case w.workQueue <- wrapped:
	}

	select {
	case <-done:
		return nil
	case <-w.done:
		// The goroutine drains the queue before exiting, so a queued item has either run or
		// will never run.
		select {
		case <-done:
			return nil
		default:
			return ErrWorldClosed
		}
	}
}

// Close stops the world after draining queued work.
func (w *World) Close() {
	w.closeOnce.Do(func() {
		close(w.closing)
	})
	<-w.done
}

func (w *World) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drainQueue()
			return
		case <-w.closing:
			w.drainQueue()
			return
		case work := <-w.workQueue:
			w.execute(work)
		}
	}
}

// drainQueue processes any remaining work in the queue before exiting
func (w *World) drainQueue() {
	for {
		select {
		case work := <-w.workQueue:
			w.execute(work)
		default:
			return
		}
	}
}

// execute runs a single work item with panic recovery
func (w *World) execute(work Work) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("world", w.name).
				Interface("panic", rec).
				Msg("World work panicked - world continuing")
		}
	}()
	work()
}
