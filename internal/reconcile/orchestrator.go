package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// SyncFunc schedules a background reconcile pass for one player.
type SyncFunc func(id uuid.UUID) error

// Orchestrator periodically resyncs every tracked player. Reconcile passes are idempotent, so
// this only repairs drift: a light component changed behind our back, or a trigger that was
// dropped on a full event queue.
type Orchestrator struct {
	players func() []uuid.UUID
	sync    SyncFunc
	limiter *rate.Limiter

	periodicInterval time.Duration
}

// NewOrchestrator creates a new periodic resync loop.
func NewOrchestrator(players func() []uuid.UUID, sync SyncFunc, periodicInterval time.Duration, rateLimitRPS float64) *Orchestrator {
	if periodicInterval == 0 {
		periodicInterval = 30 * time.Second
	}
	if rateLimitRPS == 0 {
		rateLimitRPS = 20.0
	}

	return &Orchestrator{
		players:          players,
		sync:             sync,
		limiter:          rate.NewLimiter(rate.Limit(rateLimitRPS), max(1, int(rateLimitRPS))),
		periodicInterval: periodicInterval,
	}
}

// Run starts the resync loop and blocks until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().Dur("periodic_interval", o.periodicInterval).Msg("Orchestrator started")

	ticker := time.NewTicker(o.periodicInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Orchestrator stopping")
			return nil
		case <-ticker.C:
			o.resyncAll(ctx)
		}
	}
}

func (o *Orchestrator) resyncAll(ctx context.Context) {
	ids := o.players()
	log.Debug().Int("players", len(ids)).Msg("resyncAll started")

	synced := 0
	for _, id := range ids {
		if err := o.limiter.Wait(ctx); err != nil {
			return
		}
		if err := o.sync(id); err != nil {
			log.Debug().Err(err).Str("player", id.String()).Msg("Resync skipped")
			continue
		}
		synced++
	}

	log.Debug().Int("synced", synced).Int("total", len(ids)).Msg("resyncAll completed")
}
