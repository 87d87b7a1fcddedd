// Package reconcile decides, per player, whether the brightness override should be
// installed, updated or removed, and applies that decision to the player's components.
package reconcile

import (
	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/light"
)

// Components is the per-player view of the external component store.
// It is only valid inside the player's owning world context.
type Components interface {
	// Light returns the light component currently installed, if any.
	Light() (light.ColorLight, bool)

	// SetLight creates the light component or updates it in place.
	SetLight(l light.ColorLight)

	// RemoveLight drops the light component, reverting to engine-managed light.
	RemoveLight()

	// HasQualifyingItem reports whether the player currently holds a qualifying item.
	HasQualifyingItem() bool

	// Notify sends a user-facing message to the player.
	Notify(text string)
}

// Recorder receives boost transitions (used for the audit ledger).
type Recorder interface {
	Record(id uuid.UUID, action Action, l *light.ColorLight) error
}

// Result describes what a reconcile pass did.
type Result struct {
	Action  Action
	Light   *light.ColorLight // light installed by the pass; nil unless applied
	Changed bool              // false when the installed light was already the target
}

// Notices sent to players.
const (
	NoticeDisabled     = "Brightness boost disabled."
	NoticeReverted     = "No torch in your inventory. Brightness reverted to normal."
	NoticeRequiresItem = "Keep a torch in your inventory to enable the brightness boost."
)
