package reconcile

import "github.com/dokzlo13/torchlight/internal/state"

// Action represents what a reconcile pass needs to do.
type Action int

const (
	ActionNone Action = iota
	ActionDisable
	ActionRevert
	ActionRequireItem
	ActionActivate
	ActionUpdate
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDisable:
		return "disable"
	case ActionRevert:
		return "revert"
	case ActionRequireItem:
		return "require_item"
	case ActionActivate:
		return "activate"
	case ActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// DetermineAction determines what to do from the desired state, the qualifying-item
// predicate and whether a boost is currently installed.
func DetermineAction(desired state.Desired, hasItem, active bool) Action {
	if !desired.HasBrightness() {
		return ActionDisable
	}

	if !hasItem {
		if active {
			return ActionRevert
		}
		return ActionRequireItem
	}

	if active {
		return ActionUpdate
	}
	return ActionActivate
}
