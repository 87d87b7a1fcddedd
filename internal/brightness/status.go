package brightness

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/ledger"
	"github.com/dokzlo13/torchlight/internal/light"
)

// History looks up recorded override transitions.
type History interface {
	GetByPlayer(id uuid.UUID, limit int) ([]*ledger.Entry, error)
}

// Status is a read-only view of one player's boost.
type Status struct {
	Brightness *float32
	Tint       *light.RGB
	Warmth     *float32
	Active     bool
	Baseline   *light.ColorLight

	// Most recent recorded transition; empty without a history or when none was recorded.
	LastAction string
	LastChange time.Time
}

// Status reports the player's desired state and whether the boost is installed.
func (s *Service) Status(id uuid.UUID) Status {
	d := s.table.Desired(id)
	st := Status{
		Brightness: d.Brightness,
		Tint:       d.Tint,
		Warmth:     d.Warmth,
		Active:     s.table.IsActive(id),
		Baseline:   s.table.Baseline(id),
	}

	if s.history == nil {
		return st
	}
	entries, err := s.history.GetByPlayer(id, 1)
	if err != nil {
		log.Warn().Err(err).Str("player", id.String()).Msg("Failed to read boost history")
		return st
	}
	if len(entries) > 0 {
		st.LastAction = entries[0].Action
		st.LastChange = entries[0].Timestamp
	}
	return st
}

// String renders the status as a player-facing line.
func (st Status) String() string {
	var b strings.Builder
	if st.Brightness == nil {
		b.WriteString("Brightness boost is off.")
	} else {
		b.WriteString("Brightness ")
		b.WriteString(formatFloat(*st.Brightness))
		switch {
		case st.Tint != nil:
			b.WriteString(", tint ")
			b.WriteString(st.Tint.Hex())
		case st.Warmth != nil:
			b.WriteString(", warmth ")
			b.WriteString(formatFloat(*st.Warmth))
		}
		if st.Active {
			b.WriteString(" (active).")
		} else {
			b.WriteString(" (waiting for a torch).")
		}
	}

	if st.LastAction != "" {
		fmt.Fprintf(&b, " Last change: %s at %s.", st.LastAction, st.LastChange.UTC().Format(lastChangeLayout))
	}
	return b.String()
}

const lastChangeLayout = "2006-01-02 15:04:05 UTC"

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// ParseLevel parses a brightness or warmth argument. Range is enforced by clamping later.
func ParseLevel(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(v), nil
}
