package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/brightness"
	"github.com/dokzlo13/torchlight/internal/config"
	"github.com/dokzlo13/torchlight/internal/eventbus"
	"github.com/dokzlo13/torchlight/internal/host/dragonfly"
	"github.com/dokzlo13/torchlight/internal/reconcile"
)

// GameService wraps the Dragonfly server, the player handlers and the periodic resync.
type GameService struct {
	cfg *config.Config

	Server       *server.Server
	Host         *dragonfly.Host
	Brightness   *brightness.Service
	Orchestrator *reconcile.Orchestrator
	Bus          *eventbus.Bus

	ready atomic.Bool
}

// NewGameService creates a new GameService. The server is created in Start.
func NewGameService(cfg *config.Config, svc *brightness.Service, host *dragonfly.Host, bus *eventbus.Bus) *GameService {
	orchestrator := reconcile.NewOrchestrator(
		svc.Players,
		svc.Resync,
		cfg.Reconciler.PeriodicInterval.Duration(),
		cfg.Reconciler.RateLimitRPS,
	)

	return &GameService{
		cfg:          cfg,
		Host:         host,
		Brightness:   svc,
		Orchestrator: orchestrator,
		Bus:          bus,
	}
}

// Start creates the server, registers commands and starts listening.
func (s *GameService) Start(ctx context.Context) error {
	uc := server.DefaultConfig()
	uc.Network.Address = s.cfg.Server.Address
	uc.Server.Name = s.cfg.Server.Name

	conf, err := uc.Config(slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build server config: %w", err)
	}

	dragonfly.RegisterCommands(s.Brightness, s.Host)

	s.Server = conf.New()
	s.Server.Listen()
	s.ready.Store(true)

	log.Info().Str("address", s.cfg.Server.Address).Str("name", s.cfg.Server.Name).Msg("Game server listening")
	return nil
}

// StartBackground accepts players and runs the periodic resync.
func (s *GameService) StartBackground(ctx context.Context, onFatalError func(error)) {
	go func() {
		for p := range s.Server.Accept() {
			s.Host.Join(p)
			p.Handle(dragonfly.NewHandler(s.Host, s.Bus))
			log.Debug().Str("player", p.UUID().String()).Str("name", p.Name()).Msg("Player joined")
		}
		s.ready.Store(false)
		if ctx.Err() == nil && onFatalError != nil {
			onFatalError(errors.New("game server stopped accepting players"))
		}
	}()

	go func() {
		if err := s.Orchestrator.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Orchestrator error")
		}
	}()
}

// Ready reports whether the server is accepting players.
func (s *GameService) Ready() bool {
	return s.ready.Load()
}

// Online returns the number of connected players.
func (s *GameService) Online() int {
	return s.Host.Online()
}

// Close stops the server.
func (s *GameService) Close() {
	s.ready.Store(false)
	if s.Server != nil {
		if err := s.Server.Close(); err != nil {
			log.Error().Err(err).Msg("Game server close error")
		}
	}
}
