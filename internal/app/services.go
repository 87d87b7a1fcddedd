package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/brightness"
	"github.com/dokzlo13/torchlight/internal/config"
	"github.com/dokzlo13/torchlight/internal/db"
	"github.com/dokzlo13/torchlight/internal/eventbus"
	"github.com/dokzlo13/torchlight/internal/host/dragonfly"
	"github.com/dokzlo13/torchlight/internal/itemrule"
	"github.com/dokzlo13/torchlight/internal/ledger"
	"github.com/dokzlo13/torchlight/internal/notify"
	"github.com/dokzlo13/torchlight/internal/reconcile"
	"github.com/dokzlo13/torchlight/internal/state"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure (nil when the ledger is disabled)
	DB     *db.DB
	Ledger *ledger.Ledger

	// Brightness engine
	Table      *state.Table
	Script     *itemrule.Script
	Matcher    *itemrule.Matcher
	Bus        *eventbus.Bus
	Host       *dragonfly.Host
	Brightness *brightness.Service

	// High-level services
	Game          *GameService
	Health        *HealthService
	LedgerCleanup *LedgerCleanupService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	var (
		recorder reconcile.Recorder
		history  brightness.History
	)
	if cfg.Ledger.IsEnabled() {
		database, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
		recorder = s.Ledger
		history = s.Ledger
	} else {
		log.Info().Msg("Boost ledger is disabled")
	}

	if cfg.Items.Script != "" {
		script, err := itemrule.LoadScript(cfg.Items.Script)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Script = script
	}
	s.Matcher = itemrule.NewMatcher(cfg.Items.Patterns, s.Script)

	s.Table = state.NewTable()
	s.Bus = eventbus.NewWithConfig(cfg.EventBus.GetWorkers(), cfg.EventBus.GetQueueSize())
	s.Host = dragonfly.NewHost(s.Matcher, cfg.Dragonfly.NightVision)

	s.Brightness = brightness.NewService(s.Table, s.Host, brightness.Options{
		QuietPeriod: cfg.Inventory.GetQuietPeriod(),
		Throttle:    notify.NewThrottle(cfg.Notices.RatePerSec, cfg.Notices.Burst),
		Recorder:    recorder,
		History:     history,
	})
	s.Brightness.Subscribe(s.Bus)
	s.Host.OnLeave(s.Brightness.Disconnected)

	s.Game = NewGameService(cfg, s.Brightness, s.Host, s.Bus)
	s.Health = NewHealthService(cfg, s.Game, s.Table)
	s.LedgerCleanup = NewLedgerCleanupService(cfg, s.Ledger)

	return s, nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when a fatal error occurs (e.g., the game server fails).
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	if err := s.Game.Start(ctx); err != nil {
		return err
	}

	// Start all background services
	s.Game.StartBackground(ctx, onFatalError)
	s.Health.Start(ctx)
	s.LedgerCleanup.Start(ctx)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Game != nil {
		s.Game.Close()
	}
	if s.Brightness != nil {
		s.Brightness.Close()
	}
	if s.Bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
		s.Bus.Close(ctx)
		cancel()
	}
	if s.Script != nil {
		s.Script.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
