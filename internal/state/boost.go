package state

import (
	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/light"
)

// IsActive returns true if an override is currently installed for the player.
func (t *Table) IsActive(id uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.active[id]
	return ok
}

// Activate marks the boost active. The baseline is only recorded on the first activation;
// later calls keep the original pre-boost light.
//
// Activation is refused, returning false, when no brightness is desired for the player.
// That covers a Clear that landed while the caller was mid-reconcile.
func (t *Table) Activate(id uuid.UUID, baseline *light.ColorLight) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.active[id]; ok {
		return true
	}
	if _, ok := t.brightness[id]; !ok {
		return false
	}

	var b boost
	if baseline != nil {
		captured := *baseline
		b.baseline = &captured
	}
	t.active[id] = b
	return true
}

// Baseline returns the light captured when the boost was activated, or nil.
func (t *Table) Baseline(id uuid.UUID) *light.ColorLight {
	t.mu.RLock()
	defer t.mu.RUnlock()

	b, ok := t.active[id]
	if !ok || b.baseline == nil {
		return nil
	}
	captured := *b.baseline
	return &captured
}

// Deactivate clears the active flag and baseline. It returns the baseline that was captured
// and whether the boost was active.
func (t *Table) Deactivate(id uuid.UUID) (*light.ColorLight, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.active[id]
	if !ok {
		return nil, false
	}
	delete(t.active, id)
	return b.baseline, true
}
