package reconcile

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/state"
)

// Reconciler makes a player's light component match their desired state.
//
// Reconcile must run inside the player's owning world context so that no two passes for the
// same player overlap. Passes for different players may run concurrently.
type Reconciler struct {
	table    *state.Table
	recorder Recorder
}

// New creates a Reconciler. recorder may be nil.
func New(table *state.Table, recorder Recorder) *Reconciler {
	return &Reconciler{
		table:    table,
		recorder: recorder,
	}
}

// Reconcile runs one pass for the player. Repeating a pass with unchanged desired state and
// unchanged components installs the same light.
func (r *Reconciler) Reconcile(id uuid.UUID, c Components, announce bool) Result {
	desired := r.table.Desired(id)

	// No boost requested: nothing else to look at.
	if !desired.HasBrightness() {
		return r.disable(id, c, announce)
	}

	hasItem := c.HasQualifyingItem()
	action := DetermineAction(desired, hasItem, r.table.IsActive(id))

	log.Debug().
		Str("player", id.String()).
		Bool("has_item", hasItem).
		Str("action", action.String()).
		Msg("Brightness reconcile step")

	switch action {
	case ActionRevert:
		return r.revert(id, c)

	case ActionRequireItem:
		if announce {
			c.Notify(NoticeRequiresItem)
		}
		return Result{Action: action}

	case ActionActivate, ActionUpdate:
		return r.apply(id, c, desired, action, announce)
	}

	return Result{Action: action}
}

func (r *Reconciler) disable(id uuid.UUID, c Components, announce bool) Result {
	if _, wasActive := r.table.Deactivate(id); wasActive {
		c.RemoveLight()
		log.Info().Str("player", id.String()).Msg("Brightness boost disabled")
		r.record(id, ActionDisable, nil)
	}

	if announce {
		c.Notify(NoticeDisabled)
	}
	return Result{Action: ActionDisable}
}

func (r *Reconciler) revert(id uuid.UUID, c Components) Result {
	r.table.Deactivate(id)
	c.RemoveLight()
	c.Notify(NoticeReverted)

	log.Info().Str("player", id.String()).Msg("Qualifying item gone, brightness reverted")
	r.record(id, ActionRevert, nil)
	return Result{Action: ActionRevert}
}

func (r *Reconciler) apply(id uuid.UUID, c Components, desired state.Desired, action Action, announce bool) Result {
	// The baseline is captured once, when the boost turns on. Later passes blend against the
	// stored baseline, never against our own override.
	var baseline *light.ColorLight
	if action == ActionActivate {
		if existing, ok := c.Light(); ok {
			baseline = &existing
		}
	} else {
		baseline = r.table.Baseline(id)
	}

	requested := light.Blend(*desired.Brightness, baseline, desired.Tint, desired.Warmth)
	target := requested
	if baseline != nil {
		target = light.Max(*baseline, requested)
	}

	current, had := c.Light()
	changed := !had || current != target
	if changed {
		c.SetLight(target)
	}
	if !r.table.Activate(id, baseline) {
		return r.abandon(id, c, baseline)
	}

	if changed {
		log.Info().
			Str("player", id.String()).
			Str("action", action.String()).
			Uint8("radius", target.Radius).
			Str("rgb", target.RGB().Hex()).
			Msg("Brightness override applied")
		r.record(id, action, &target)
	}

	if announce {
		c.Notify(AppliedNotice(*desired.Brightness, target))
	}

	return Result{Action: action, Light: &target, Changed: changed}
}

// abandon undoes an override whose player state was purged mid-pass, typically by a
// disconnect. The table is left untouched.
func (r *Reconciler) abandon(id uuid.UUID, c Components, baseline *light.ColorLight) Result {
	if baseline != nil {
		c.SetLight(*baseline)
	} else {
		c.RemoveLight()
	}
	log.Debug().Str("player", id.String()).Msg("Player state purged during reconcile, override dropped")
	return Result{Action: ActionDisable}
}

func (r *Reconciler) record(id uuid.UUID, action Action, l *light.ColorLight) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(id, action, l); err != nil {
		log.Warn().Err(err).Str("player", id.String()).Msg("Failed to record brightness transition")
	}
}

// AppliedNotice formats the message sent after an override is applied.
func AppliedNotice(brightness float32, l light.ColorLight) string {
	return fmt.Sprintf("Brightness tweaked to %s (%s).",
		strconv.FormatFloat(float64(brightness), 'f', -1, 32), l.String())
}
