package reconcile

import (
	"testing"

	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/state"
)

// Helper to create a float32 pointer
func f32(v float32) *float32 {
	return &v
}

func TestDetermineAction(t *testing.T) {
	tests := []struct {
		name     string
		desired  state.Desired
		hasItem  bool
		active   bool
		expected Action
	}{
		// === No brightness requested ===
		{
			name:     "unset/inactive",
			desired:  state.Desired{},
			expected: ActionDisable,
		},
		{
			name:     "unset/active_with_item",
			desired:  state.Desired{},
			hasItem:  true,
			active:   true,
			expected: ActionDisable, // clearing wins over holding the item
		},
		{
			name:     "unset/tint_only",
			desired:  state.Desired{Tint: &light.RGB{R: 255}},
			hasItem:  true,
			expected: ActionDisable,
		},

		// === Brightness requested, no item ===
		{
			name:     "no_item/inactive",
			desired:  state.Desired{Brightness: f32(0.5)},
			expected: ActionRequireItem,
		},
		{
			name:     "no_item/active",
			desired:  state.Desired{Brightness: f32(0.5)},
			active:   true,
			expected: ActionRevert,
		},

		// === Brightness requested, item held ===
		{
			name:     "item/inactive",
			desired:  state.Desired{Brightness: f32(0.5)},
			hasItem:  true,
			expected: ActionActivate,
		},
		{
			name:     "item/active",
			desired:  state.Desired{Brightness: f32(1), Warmth: f32(0.2)},
			hasItem:  true,
			active:   true,
			expected: ActionUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetermineAction(tt.desired, tt.hasItem, tt.active)
			if result != tt.expected {
				t.Errorf("DetermineAction() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "none"},
		{ActionDisable, "disable"},
		{ActionRevert, "revert"},
		{ActionRequireItem, "require_item"},
		{ActionActivate, "activate"},
		{ActionUpdate, "update"},
		{Action(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("Action(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}
