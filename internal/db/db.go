// Package db provides the SQLite connection and schema for torchlight.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Boost ledger - append-only history of override transitions per player
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS boost_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			action TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			radius INTEGER,
			red INTEGER,
			green INTEGER,
			blue INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_boost_ledger_player_ts ON boost_ledger(player, timestamp);
		CREATE INDEX IF NOT EXISTS idx_boost_ledger_ts ON boost_ledger(timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create boost_ledger table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
