// Package dragonfly hosts the brightness boost on a Dragonfly server. Dragonfly has no dynamic
// light component, so the host keeps one per player and can mirror an active boost as night
// vision.
package dragonfly

import (
	"sync"

	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/brightness"
	"github.com/dokzlo13/torchlight/internal/itemrule"
	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/reconcile"
)

// Host implements brightness.Host for Dragonfly players.
type Host struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*world.EntityHandle
	lights   map[uuid.UUID]light.ColorLight

	matcher     *itemrule.Matcher
	nightVision bool
	onLeave     []func(uuid.UUID)
}

// NewHost creates a host.
func NewHost(matcher *itemrule.Matcher, nightVision bool) *Host {
	return &Host{
		sessions:    make(map[uuid.UUID]*world.EntityHandle),
		lights:      make(map[uuid.UUID]light.ColorLight),
		matcher:     matcher,
		nightVision: nightVision,
	}
}

// Join tracks a connected player.
func (h *Host) Join(p *player.Player) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[p.UUID()] = p.H()
}

// OnLeave registers fn to run synchronously on every Leave. Register before players join.
func (h *Host) OnLeave(fn func(id uuid.UUID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLeave = append(h.onLeave, fn)
}

// Leave forgets a player and their light component, then runs the leave hooks.
func (h *Host) Leave(id uuid.UUID) {
	h.mu.Lock()
	delete(h.sessions, id)
	delete(h.lights, id)
	hooks := h.onLeave
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
}

// Online returns the number of tracked players.
func (h *Host) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Exec implements brightness.Host. It must not be called from inside a world transaction.
func (h *Host) Exec(id uuid.UUID, fn func(c reconcile.Components)) error {
	h.mu.RLock()
	handle, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return brightness.ErrPlayerNotFound
	}

	found := false
	ran := handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		found = true
		fn(h.Components(p))
	})
	if !ran {
		return brightness.ErrWorldUnavailable
	}
	if !found {
		return brightness.ErrPlayerNotFound
	}
	return nil
}

// Components returns the component view of a player. Only valid inside the player's
// world transaction.
func (h *Host) Components(p *player.Player) reconcile.Components {
	return &components{host: h, p: p}
}

func (h *Host) light(id uuid.UUID) (light.ColorLight, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	l, ok := h.lights[id]
	return l, ok
}

func (h *Host) setLight(id uuid.UUID, l light.ColorLight) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lights[id] = l
}

func (h *Host) removeLight(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lights, id)
}

// nightVisionEffect mirrors an active boost on clients that cannot render the light table.
func nightVisionEffect() effect.Effect {
	return effect.NewInfinite(effect.NightVision, 1).WithoutParticles()
}

// components adapts a player to reconcile.Components.
type components struct {
	host *Host
	p    *player.Player
}

func (c *components) Light() (light.ColorLight, bool) {
	return c.host.light(c.p.UUID())
}

func (c *components) SetLight(l light.ColorLight) {
	c.host.setLight(c.p.UUID(), l)
	if c.host.nightVision {
		c.p.AddEffect(nightVisionEffect())
	}
	log.Debug().
		Str("player", c.p.UUID().String()).
		Uint8("radius", l.Radius).
		Str("rgb", l.RGB().Hex()).
		Msg("Light component set")
}

func (c *components) RemoveLight() {
	c.host.removeLight(c.p.UUID())
	if c.host.nightVision {
		c.p.RemoveEffect(effect.NightVision)
	}
}

func (c *components) HasQualifyingItem() bool {
	return c.host.matcher.Any(PlayerItemIDs(c.p))
}

func (c *components) Notify(text string) {
	c.p.Message(text)
}

// PlayerItemIDs lists the ids of the held, off-hand and inventory items.
func PlayerItemIDs(p *player.Player) []string {
	held, off := p.HeldItems()
	stacks := append([]item.Stack{held, off}, p.Inventory().Items()...)
	return StackIDs(stacks)
}

// StackIDs returns the encoded item name of every non-empty stack.
func StackIDs(stacks []item.Stack) []string {
	ids := make([]string, 0, len(stacks))
	for _, s := range stacks {
		if s.Empty() {
			continue
		}
		name, _ := s.Item().EncodeItem()
		ids = append(ids, name)
	}
	return ids
}
