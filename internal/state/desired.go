// Package state provides the per-player desired state table and active-boost tracker.
// State is process-lifetime only: entries are created on first command use and purged on
// disconnect.
package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/light"
)

// Desired is a consistent snapshot of one player's desired state.
type Desired struct {
	Brightness *float32   // nil = no boost requested
	Tint       *light.RGB // mutually exclusive with Warmth
	Warmth     *float32   // mutually exclusive with Tint
}

// HasBrightness returns true if a boost is requested.
func (d Desired) HasBrightness() bool {
	return d.Brightness != nil
}

// boost is an active override and the light observed before it was installed.
type boost struct {
	baseline *light.ColorLight
}

// Table holds desired brightness, tint and warmth per player plus the active-boost tracker.
// All methods are safe for concurrent use; each call is atomic.
type Table struct {
	mu         sync.RWMutex
	brightness map[uuid.UUID]float32
	tint       map[uuid.UUID]light.RGB
	warmth     map[uuid.UUID]float32
	active     map[uuid.UUID]boost
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		brightness: make(map[uuid.UUID]float32),
		tint:       make(map[uuid.UUID]light.RGB),
		warmth:     make(map[uuid.UUID]float32),
		active:     make(map[uuid.UUID]boost),
	}
}

// SetBrightness sets the desired brightness, clamped into range. nil clears it.
func (t *Table) SetBrightness(id uuid.UUID, value *float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if value == nil {
		delete(t.brightness, id)
		return
	}
	t.brightness[id] = light.ClampBrightness(*value)
}

// SetTint sets the desired tint and drops any warmth. nil clears the tint only.
func (t *Table) SetTint(id uuid.UUID, rgb *light.RGB) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rgb == nil {
		delete(t.tint, id)
		return
	}
	delete(t.warmth, id)
	t.tint[id] = *rgb
}

// SetWarmth sets the desired warmth, clamped to [0, 1], and drops any tint.
// nil clears the warmth only.
func (t *Table) SetWarmth(id uuid.UUID, warmth *float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if warmth == nil {
		delete(t.warmth, id)
		return
	}
	delete(t.tint, id)
	t.warmth[id] = light.ClampWarmth(*warmth)
}

// Desired returns a snapshot of the player's desired state.
func (t *Table) Desired(id uuid.UUID) Desired {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var d Desired
	if v, ok := t.brightness[id]; ok {
		d.Brightness = &v
	}
	if v, ok := t.tint[id]; ok {
		d.Tint = &v
	}
	if v, ok := t.warmth[id]; ok {
		d.Warmth = &v
	}
	return d
}

// HasState returns true if the player requested a boost or currently has one installed.
// Inventory changes only trigger a resync for such players.
func (t *Table) HasState(id uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, requested := t.brightness[id]
	_, active := t.active[id]
	return requested || active
}

// Clear purges every entry for the player (used on disconnect).
func (t *Table) Clear(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.brightness, id)
	delete(t.tint, id)
	delete(t.warmth, id)
	delete(t.active, id)
}

// Len returns the number of players with any entry.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(t.brightness)+len(t.active))
	for id := range t.brightness {
		seen[id] = struct{}{}
	}
	for id := range t.tint {
		seen[id] = struct{}{}
	}
	for id := range t.warmth {
		seen[id] = struct{}{}
	}
	for id := range t.active {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Players returns the players that currently have state (see HasState).
func (t *Table) Players() []uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(t.brightness)+len(t.active))
	for id := range t.brightness {
		ids = append(ids, id)
	}
	for id := range t.active {
		if _, ok := t.brightness[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}
