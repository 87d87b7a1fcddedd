package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/config"
)

// App is the main application container that manages all services and their lifecycle.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new App instance with all services initialized but not started.
func New(cfg *config.Config) (*App, error) {
	logConfig(cfg)

	services, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Start initializes and starts all services.
// The provided context is used for cancellation.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	// Fatal error handler - cancels the app context to trigger shutdown
	onFatalError := func(err error) {
		log.Error().Err(err).Msg("Fatal error, initiating shutdown")
		a.cancel()
	}

	if err := a.services.Start(a.ctx, onFatalError); err != nil {
		return err
	}

	log.Info().
		Str("address", a.cfg.Server.Address).
		Strs("item_patterns", a.services.Matcher.Patterns()).
		Bool("item_script", a.services.Script != nil).
		Msg("torchlight started")
	return nil
}

// Stop gracefully shuts down all services.
func (a *App) Stop() error {
	tracked := 0
	if a.services != nil {
		tracked = a.services.Table.Len()
	}
	log.Info().Int("tracked_players", tracked).Msg("Shutting down...")

	if a.cancel != nil {
		a.cancel()
	}

	if a.services != nil {
		return a.services.Stop()
	}

	return nil
}

// Wait blocks until the application context is cancelled.
func (a *App) Wait() {
	if a.ctx != nil {
		<-a.ctx.Done()
	}
}

// logConfig reports the settings that shape boost behavior.
func logConfig(cfg *config.Config) {
	log.Info().
		Str("server", cfg.Server.Name).
		Strs("patterns", cfg.Items.Patterns).
		Str("script", cfg.Items.Script).
		Dur("quiet_period", cfg.Inventory.GetQuietPeriod()).
		Float64("notice_rate", cfg.Notices.RatePerSec).
		Int("notice_burst", cfg.Notices.Burst).
		Bool("night_vision", cfg.Dragonfly.NightVision).
		Msg("Item and notice settings")

	ev := log.Info().Bool("enabled", cfg.Ledger.IsEnabled())
	if cfg.Ledger.IsEnabled() {
		ev = ev.Str("path", cfg.Ledger.Path).Int("retention_days", cfg.Ledger.RetentionDays)
	}
	ev.Msg("Boost ledger settings")
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
