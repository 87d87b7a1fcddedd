// Package debounce coalesces bursts of per-player triggers into a single flush.
package debounce

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FlushFunc is called once a player's triggers have gone quiet.
type FlushFunc func(id uuid.UUID, count int)

type pending struct {
	timer *time.Timer
	count int
}

// Quiet flushes a player after a quiet period (no new triggers for that player).
// A zero quiet period flushes synchronously on every trigger.
type Quiet struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*pending
	quiet   time.Duration
	onFlush FlushFunc
	closed  bool
}

// NewQuiet creates a new Quiet collector.
func NewQuiet(quiet time.Duration, onFlush FlushFunc) *Quiet {
	return &Quiet{
		pending: make(map[uuid.UUID]*pending),
		quiet:   quiet,
		onFlush: onFlush,
	}
}

// Add records a trigger for the player and resets that player's quiet timer.
func (q *Quiet) Add(id uuid.UUID) {
	if q.quiet <= 0 {
		q.onFlush(id, 1)
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	p, ok := q.pending[id]
	if !ok {
		p = &pending{}
		q.pending[id] = p
	}
	p.count++

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(q.quiet, func() { q.flush(id, p) })
}

// flush sends the accumulated trigger count to the flush callback
func (q *Quiet) flush(id uuid.UUID, p *pending) {
	q.mu.Lock()
	// A newer Add or a Cancel replaced this entry; its own timer will handle it.
	if q.pending[id] != p {
		q.mu.Unlock()
		return
	}
	count := p.count
	delete(q.pending, id)
	q.mu.Unlock()

	if count > 0 {
		q.onFlush(id, count)
	}
}

// Cancel drops any pending flush for the player.
func (q *Quiet) Cancel(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if p, ok := q.pending[id]; ok {
		p.timer.Stop()
		delete(q.pending, id)
	}
}

// Close stops all timers. Pending flushes are dropped.
func (q *Quiet) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for id, p := range q.pending {
		p.timer.Stop()
		delete(q.pending, id)
	}
}
