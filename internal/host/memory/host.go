package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/brightness"
	"github.com/dokzlo13/torchlight/internal/eventbus"
	"github.com/dokzlo13/torchlight/internal/itemrule"
	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/reconcile"
)

// entity is a player's component set. Fields are owned by the world goroutine.
type entity struct {
	light   *light.ColorLight
	items   []string
	notices []string
}

type session struct {
	world  *World
	entity *entity
}

// Host maps players to worlds and implements brightness.Host.
type Host struct {
	mu       sync.RWMutex
	worlds   map[string]*World
	sessions map[uuid.UUID]*session

	matcher *itemrule.Matcher
	bus     *eventbus.Bus
	onLeave []func(uuid.UUID)
}

// NewHost creates a host. bus may be nil, in which case no events are published.
func NewHost(matcher *itemrule.Matcher, bus *eventbus.Bus) *Host {
	return &Host{
		worlds:   make(map[string]*World),
		sessions: make(map[uuid.UUID]*session),
		matcher:  matcher,
		bus:      bus,
	}
}

// AddWorld registers a world.
func (h *Host) AddWorld(w *World) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.worlds[w.Name()] = w
}

// Join spawns a player in a world with an optional starting light.
func (h *Host) Join(id uuid.UUID, worldName string, start *light.ColorLight) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.worlds[worldName]
	if !ok {
		return fmt.Errorf("join %q: %w", worldName, brightness.ErrWorldUnavailable)
	}

	e := &entity{}
	if start != nil {
		l := *start
		e.light = &l
	}
	h.sessions[id] = &session{world: w, entity: e}
	return nil
}

// OnLeave registers fn to run synchronously on every Leave.
func (h *Host) OnLeave(fn func(id uuid.UUID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLeave = append(h.onLeave, fn)
}

// Leave removes the player and runs the leave hooks before returning.
func (h *Host) Leave(id uuid.UUID) {
	h.mu.Lock()
	delete(h.sessions, id)
	hooks := h.onLeave
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
}

// SetInventory replaces the player's item ids and publishes an inventory change.
func (h *Host) SetInventory(id uuid.UUID, items ...string) error {
	err := h.do(id, func(e *entity) {
		e.items = append([]string(nil), items...)
	})
	if err != nil {
		return err
	}
	h.publish(eventbus.EventTypeInventoryChanged, id, "set_inventory")
	return nil
}

// SetLight overwrites the player's light component from outside the engine.
func (h *Host) SetLight(id uuid.UUID, l *light.ColorLight) error {
	return h.do(id, func(e *entity) {
		if l == nil {
			e.light = nil
			return
		}
		v := *l
		e.light = &v
	})
}

// Light returns a copy of the player's light component.
func (h *Host) Light(id uuid.UUID) (*light.ColorLight, error) {
	var out *light.ColorLight
	err := h.do(id, func(e *entity) {
		if e.light != nil {
			v := *e.light
			out = &v
		}
	})
	return out, err
}

// Notices returns every notice sent to the player so far.
func (h *Host) Notices(id uuid.UUID) ([]string, error) {
	var out []string
	err := h.do(id, func(e *entity) {
		out = append(out, e.notices...)
	})
	return out, err
}

// Exec implements brightness.Host.
func (h *Host) Exec(id uuid.UUID, fn func(c reconcile.Components)) error {
	return h.do(id, func(e *entity) {
		fn(&components{entity: e, matcher: h.matcher})
	})
}

func (h *Host) do(id uuid.UUID, fn func(e *entity)) error {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return brightness.ErrPlayerNotFound
	}

	if err := s.world.Do(func() { fn(s.entity) }); err != nil {
		return fmt.Errorf("%w: %v", brightness.ErrWorldUnavailable, err)
	}
	return nil
}

func (h *Host) publish(t eventbus.EventType, id uuid.UUID, source string) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(eventbus.Event{Type: t, Player: id, Source: source})
}

// components adapts an entity to reconcile.Components.
type components struct {
	entity  *entity
	matcher *itemrule.Matcher
}

func (c *components) Light() (light.ColorLight, bool) {
	if c.entity.light == nil {
		return light.ColorLight{}, false
	}
	return *c.entity.light, true
}

func (c *components) SetLight(l light.ColorLight) {
	c.entity.light = &l
}

func (c *components) RemoveLight() {
	c.entity.light = nil
}

func (c *components) HasQualifyingItem() bool {
	return c.matcher.Any(c.entity.items)
}

func (c *components) Notify(text string) {
	c.entity.notices = append(c.entity.notices, text)
}
