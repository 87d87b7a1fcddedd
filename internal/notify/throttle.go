// Package notify throttles player notices so a burst of commands cannot flood chat.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultRatePerSec = 2.0
	DefaultBurst      = 4
)

// Sender delivers a notice to a player.
type Sender func(text string)

// Throttle keeps one token bucket per player.
type Throttle struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewThrottle creates a throttle. A non-positive rate disables throttling.
func NewThrottle(ratePerSec float64, burst int) *Throttle {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Throttle{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow reports whether a notice may be sent to the player now.
func (t *Throttle) Allow(id uuid.UUID) bool {
	if t == nil || t.limit == rate.Inf {
		return true
	}

	t.mu.Lock()
	l, ok := t.limiters[id]
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[id] = l
	}
	t.mu.Unlock()

	return l.Allow()
}

// Wrap returns a sender that drops notices over the player's budget.
func (t *Throttle) Wrap(id uuid.UUID, send Sender) Sender {
	return func(text string) {
		if !t.Allow(id) {
			log.Debug().Str("player", id.String()).Str("notice", text).Msg("Notice throttled")
			return
		}
		send(text)
	}
}

// Forget drops the player's bucket.
func (t *Throttle) Forget(id uuid.UUID) {
	if t == nil {
		return
	}
	t.mu.Lock()
	delete(t.limiters, id)
	t.mu.Unlock()
}
