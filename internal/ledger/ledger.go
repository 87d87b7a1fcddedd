// Package ledger keeps an append-only history of brightness override transitions.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/light"
	"github.com/dokzlo13/torchlight/internal/reconcile"
)

// Entry represents a single transition in the ledger
type Entry struct {
	ID        int64
	Player    uuid.UUID
	Action    string
	Timestamp time.Time
	Light     *light.ColorLight // nil for disable/revert
}

// Ledger records transitions into the boost_ledger table
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Record appends a transition. It satisfies reconcile.Recorder.
func (l *Ledger) Record(id uuid.UUID, action reconcile.Action, installed *light.ColorLight) error {
	var radius, red, green, blue sql.NullInt64
	if installed != nil {
		radius = sql.NullInt64{Int64: int64(installed.Radius), Valid: true}
		red = sql.NullInt64{Int64: int64(installed.Red), Valid: true}
		green = sql.NullInt64{Int64: int64(installed.Green), Valid: true}
		blue = sql.NullInt64{Int64: int64(installed.Blue), Valid: true}
	}

	_, err := l.db.Exec(
		`INSERT INTO boost_ledger (player, action, timestamp, radius, red, green, blue) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), action.String(), l.now().UTC().UnixMilli(), radius, red, green, blue,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// GetByPlayer returns the player's most recent entries, newest first
func (l *Ledger) GetByPlayer(id uuid.UUID, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, player, action, timestamp, radius, red, green, blue
		FROM boost_ledger
		WHERE player = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, id.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := l.now().Add(-retention).UnixMilli()
	result, err := l.db.Exec(`DELETE FROM boost_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var player string
		var timestamp int64
		var radius, red, green, blue sql.NullInt64

		if err := rows.Scan(&entry.ID, &player, &entry.Action, &timestamp, &radius, &red, &green, &blue); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(player)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q in ledger: %w", player, err)
		}
		entry.Player = id
		entry.Timestamp = time.UnixMilli(timestamp).UTC()

		if radius.Valid {
			entry.Light = &light.ColorLight{
				Radius: uint8(radius.Int64),
				Red:    uint8(red.Int64),
				Green:  uint8(green.Int64),
				Blue:   uint8(blue.Int64),
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
