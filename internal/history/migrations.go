package history

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations. Append new
// migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query TEXT NOT NULL,
    pmf_score INTEGER NOT NULL,
    signal_level TEXT NOT NULL,
    total_posts INTEGER NOT NULL DEFAULT 0,
    pain_posts INTEGER NOT NULL DEFAULT 0,
    intent_posts INTEGER NOT NULL DEFAULT 0,
    buying_posts INTEGER NOT NULL DEFAULT 0,
    switch_posts INTEGER NOT NULL DEFAULT 0,
    source_status TEXT,
    summary TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);`)
			return err
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

// migrate brings the database schema up to the latest version, tracking
// applied migrations with PRAGMA user_version.
func migrate(conn *sql.DB) error {
	var current int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"version":     m.Version,
			"description": m.Description,
		}).Debug("applying migration")

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		// Set user_version outside the transaction (modernc/sqlite requirement).
		// Safe: if we crash here, the idempotent DDL lets the migration re-run.
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("setting version %d: %w", m.Version, err)
		}
	}

	return nil
}
