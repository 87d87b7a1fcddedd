// Package brightness is the entry point for every trigger that can change a player's boost:
// commands, inventory changes, periodic resync and disconnects.
package brightness

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/debounce"
	"github.com/dokzlo13/torchlight/internal/eventbus"
	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/notify"
	"github.com/dokzlo13/torchlight/internal/reconcile"
	"github.com/dokzlo13/torchlight/internal/state"
)

// Options configures a Service.
type Options struct {
	QuietPeriod time.Duration      // inventory debounce; 0 resyncs on every change
	Throttle    *notify.Throttle   // optional notice throttle
	Recorder    reconcile.Recorder // optional transition recorder
	History     History            // optional, feeds the last transition into Status
}

// Service owns the desired-state table and runs reconcile passes through a Host.
type Service struct {
	table      *state.Table
	reconciler *reconcile.Reconciler
	host       Host
	throttle   *notify.Throttle
	history    History
	inventory  *debounce.Quiet
}

// NewService creates a Service over a shared table.
func NewService(table *state.Table, host Host, opts Options) *Service {
	s := &Service{
		table:      table,
		reconciler: reconcile.New(table, opts.Recorder),
		host:       host,
		throttle:   opts.Throttle,
		history:    opts.History,
	}
	s.inventory = debounce.NewQuiet(opts.QuietPeriod, s.flushInventory)
	return s
}

// WithHost returns a Service sharing all state with s but executing through h.
func (s *Service) WithHost(h Host) *Service {
	c := *s
	c.host = h
	return &c
}

// SetBrightness stores (or clears, when nil) the desired brightness and syncs.
func (s *Service) SetBrightness(id uuid.UUID, value *float32) error {
	s.table.SetBrightness(id, value)
	return s.Sync(id, true)
}

// SetTint stores (or clears, when nil) the tint override and syncs.
func (s *Service) SetTint(id uuid.UUID, rgb *light.RGB) error {
	s.table.SetTint(id, rgb)
	return s.Sync(id, true)
}

// SetWarmth stores (or clears, when nil) the warmth override and syncs.
func (s *Service) SetWarmth(id uuid.UUID, warmth *float32) error {
	s.table.SetWarmth(id, warmth)
	return s.Sync(id, true)
}

// Sync runs one reconcile pass for the player on the owning context.
func (s *Service) Sync(id uuid.UUID, announce bool) error {
	err := s.host.Exec(id, func(c reconcile.Components) {
		s.reconciler.Reconcile(id, s.wrap(id, c), announce)
	})
	if err != nil {
		return fmt.Errorf("sync player %s: %w", id, err)
	}
	return nil
}

// Resync is a background pass used by the periodic orchestrator.
func (s *Service) Resync(id uuid.UUID) error {
	if !s.table.HasState(id) {
		return nil
	}
	return s.Sync(id, false)
}

// InventoryChanged schedules a quiet background pass for a player with state.
func (s *Service) InventoryChanged(id uuid.UUID) {
	if !s.table.HasState(id) {
		return
	}
	s.inventory.Add(id)
}

// Disconnected purges everything held for the player. Hosts call it synchronously from their
// leave path. It never enters a world transaction, so it is safe to call from inside one.
func (s *Service) Disconnected(id uuid.UUID) {
	s.inventory.Cancel(id)
	s.table.Clear(id)
	s.throttle.Forget(id)
	log.Debug().Str("player", id.String()).Msg("Player state purged")
}

// Players returns every player with desired or active state.
func (s *Service) Players() []uuid.UUID {
	return s.table.Players()
}

// Subscribe routes inventory events from the bus to the service.
func (s *Service) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.EventTypeInventoryChanged, func(e eventbus.Event) {
		s.InventoryChanged(e.Player)
	})
}

// Close stops pending inventory passes.
func (s *Service) Close() {
	s.inventory.Close()
}

func (s *Service) flushInventory(id uuid.UUID, count int) {
	if !s.table.HasState(id) {
		return
	}
	if err := s.Sync(id, false); err != nil {
		log.Debug().Err(err).Str("player", id.String()).Int("changes", count).Msg("Inventory resync dropped")
	}
}

func (s *Service) wrap(id uuid.UUID, c reconcile.Components) reconcile.Components {
	if s.throttle == nil {
		return c
	}
	return throttled{Components: c, send: s.throttle.Wrap(id, c.Notify)}
}

// throttled routes notices through a per-player throttle.
type throttled struct {
	reconcile.Components
	send notify.Sender
}

func (t throttled) Notify(text string) {
	t.send(text)
}
