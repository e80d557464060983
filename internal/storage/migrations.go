/*
Package storage: schema definitions and migration logic.
*/
package storage

import (
	"fmt"
	"log"
)

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// runMigrations executes schema migrations in order.
func (s *SQLiteStore) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.currentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SQLiteStore) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

func (s *SQLiteStore) currentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *SQLiteStore) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001InitialSchema creates the sessions and tools tables.
func (s *SQLiteStore) migration001InitialSchema() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS research_sessions (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			analysis TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			tool_count INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		return err
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_tools (
			session_id TEXT NOT NULL REFERENCES research_sessions(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		)
	`); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_created_at
		ON research_sessions(created_at)
	`)
	return err
}
