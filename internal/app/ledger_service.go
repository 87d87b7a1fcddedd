package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/config"
	"github.com/dokzlo13/torchlight/internal/ledger"
)

// LedgerCleanupService enforces ledger retention.
type LedgerCleanupService struct {
	cfg    *config.Config
	ledger *ledger.Ledger
}

// NewLedgerCleanupService creates a new LedgerCleanupService. l may be nil.
func NewLedgerCleanupService(cfg *config.Config, l *ledger.Ledger) *LedgerCleanupService {
	return &LedgerCleanupService{cfg: cfg, ledger: l}
}

// Start begins periodic cleanup if the ledger is enabled.
func (s *LedgerCleanupService) Start(ctx context.Context) {
	if s.ledger == nil {
		return
	}
	go s.run(ctx)
}

func (s *LedgerCleanupService) run(ctx context.Context) {
	retention := time.Duration(s.cfg.Ledger.RetentionDays) * 24 * time.Hour
	interval := s.cfg.Ledger.CleanupInterval.Duration()

	s.cleanup(retention)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(retention)
		}
	}
}

func (s *LedgerCleanupService) cleanup(retention time.Duration) {
	deleted, err := s.ledger.DeleteOlderThan(retention)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old ledger entries")
	} else if deleted > 0 {
		log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old ledger entries")
	}
}
