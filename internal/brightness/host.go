package brightness

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/reconcile"
)

var (
	// ErrPlayerNotFound is returned when the player has no live session.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrWorldUnavailable is returned when the player's world cannot run work.
	ErrWorldUnavailable = errors.New("world unavailable")
)

// Messages shown by command layers for Exec failures.
const (
	MessagePlayerNotFound   = "Unable to find your player session."
	MessageWorldUnavailable = "Unable to find your current world."
)

// Host runs work in the context that owns a player's components.
type Host interface {
	// Exec runs fn with the player's components on the owning world context and waits for it.
	// It must not be called from inside that context.
	Exec(id uuid.UUID, fn func(c reconcile.Components)) error
}

// Inline is a Host for callers already inside the owning context, such as a command
// handler that was handed the world transaction.
type Inline struct {
	Components reconcile.Components
}

// Exec runs fn immediately.
func (h Inline) Exec(_ uuid.UUID, fn func(c reconcile.Components)) error {
	if h.Components == nil {
		return ErrPlayerNotFound
	}
	fn(h.Components)
	return nil
}

// ErrorMessage maps an Exec error to the text shown to the player.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		return MessagePlayerNotFound
	case errors.Is(err, ErrWorldUnavailable):
		return MessageWorldUnavailable
	default:
		return "Unable to update brightness."
	}
}
