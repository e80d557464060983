/*
Package storage implements the persistent research history.

Completed research sessions are stored in a SQLite database at
~/.devscout/history.db using modernc.org/sqlite (pure Go, CGo-free), with
graceful degradation: if the database cannot be opened, history operations
become no-ops and the interactive session keeps working.
*/
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/scoutware/devscout/internal/record"
)

// SessionSummary is one persisted research session, without its tools.
type SessionSummary struct {
	// ID is the session's UUID.
	ID string `json:"id"`

	// Query is the research query that produced the session.
	Query string `json:"query"`

	// CreatedAt is when the research completed.
	CreatedAt time.Time `json:"created_at"`

	// ToolCount is the number of tools in the result set.
	ToolCount int `json:"tool_count"`
}

// Store defines the persistence operations the CLI depends on.
type Store interface {
	// Init opens the database and runs migrations.
	Init() error

	// SaveSession persists a completed research session and returns its ID.
	SaveSession(query, analysis string, records []*record.ToolRecord) (string, error)

	// ListSessions returns the most recent sessions, newest first.
	ListSessions(limit int) ([]SessionSummary, error)

	// GetSession loads one session's records and analysis by ID (or ID prefix).
	GetSession(id string) (SessionSummary, []*record.ToolRecord, string, error)

	// AllTools streams every persisted tool with its session ID, for indexing.
	AllTools() ([]IndexedTool, error)

	// Cleanup removes sessions older than the retention period.
	Cleanup(retention time.Duration) error

	// Close closes the database.
	Close() error
}

// IndexedTool pairs a persisted tool record with its owning session.
type IndexedTool struct {
	SessionID string
	Query     string
	Record    *record.ToolRecord
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStore creates a store backed by ~/.devscout/history.db. If the home
// directory is unavailable, the store is disabled but never fails.
func NewStore() *SQLiteStore {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStore{enabled: false}
	}
	return NewStoreAt(filepath.Join(home, ".devscout", "history.db"))
}

// NewStoreAt creates a store backed by an explicit database path.
func NewStoreAt(dbPath string) *SQLiteStore {
	return &SQLiteStore{dbPath: dbPath, enabled: true}
}

// Init opens the database and runs migrations. On failure the store is
// disabled and subsequent operations become no-ops.
func (s *SQLiteStore) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})
	return initErr
}

// Enabled reports whether the store is usable.
func (s *SQLiteStore) Enabled() bool {
	return s.enabled && s.db != nil
}

// SaveSession persists the session and its tools in one transaction.
func (s *SQLiteStore) SaveSession(query, analysis string, records []*record.ToolRecord) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO research_sessions (id, query, analysis, created_at, tool_count)
		VALUES (?, ?, ?, ?, ?)
	`, id, query, analysis, time.Now().UTC().Format(time.RFC3339), len(records))
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	for pos, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to encode tool %s: %w", r.Name, err)
		}
		_, err = tx.Exec(`
			INSERT INTO session_tools (session_id, position, name, data)
			VALUES (?, ?, ?, ?)
		`, id, pos, r.Name, string(data))
		if err != nil {
			return "", fmt.Errorf("failed to insert tool %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *SQLiteStore) ListSessions(limit int) ([]SessionSummary, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, query, created_at, tool_count
		FROM research_sessions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// GetSession loads one session by full ID or unambiguous ID prefix.
func (s *SQLiteStore) GetSession(id string) (SessionSummary, []*record.ToolRecord, string, error) {
	if !s.Enabled() {
		return SessionSummary{}, nil, "", fmt.Errorf("history database is unavailable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT id, query, created_at, tool_count, analysis
		FROM research_sessions
		WHERE id = ? OR id LIKE ?
		ORDER BY created_at DESC
		LIMIT 1
	`, id, id+"%")

	var summary SessionSummary
	var createdAt, analysis string
	if err := row.Scan(&summary.ID, &summary.Query, &createdAt, &summary.ToolCount, &analysis); err != nil {
		if err == sql.ErrNoRows {
			return SessionSummary{}, nil, "", fmt.Errorf("no session with id %q", id)
		}
		return SessionSummary{}, nil, "", fmt.Errorf("failed to load session: %w", err)
	}
	summary.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.Query(`
		SELECT data FROM session_tools
		WHERE session_id = ?
		ORDER BY position ASC
	`, summary.ID)
	if err != nil {
		return SessionSummary{}, nil, "", fmt.Errorf("failed to load session tools: %w", err)
	}
	defer rows.Close()

	var records []*record.ToolRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return SessionSummary{}, nil, "", err
		}
		var r record.ToolRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return SessionSummary{}, nil, "", fmt.Errorf("corrupt tool record in session %s: %w", summary.ID, err)
		}
		records = append(records, &r)
	}
	return summary, records, analysis, rows.Err()
}

// AllTools returns every persisted tool for index building.
func (s *SQLiteStore) AllTools() ([]IndexedTool, error) {
	if !s.Enabled() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT t.session_id, s.query, t.data
		FROM session_tools t
		JOIN research_sessions s ON s.id = t.session_id
		ORDER BY s.created_at DESC, t.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}
	defer rows.Close()

	var out []IndexedTool
	for rows.Next() {
		var sessionID, query, data string
		if err := rows.Scan(&sessionID, &query, &data); err != nil {
			return nil, err
		}
		var r record.ToolRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			log.Printf("Warning: skipping corrupt tool record in session %s: %v", sessionID, err)
			continue
		}
		out = append(out, IndexedTool{SessionID: sessionID, Query: query, Record: &r})
	}
	return out, rows.Err()
}

// Cleanup removes sessions (and their tools) older than the retention period.
func (s *SQLiteStore) Cleanup(retention time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	if _, err := s.db.Exec(`
		DELETE FROM session_tools WHERE session_id IN
			(SELECT id FROM research_sessions WHERE created_at < ?)
	`, cutoff); err != nil {
		return fmt.Errorf("failed to clean up tools: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM research_sessions WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if !s.Enabled() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

func scanSummary(rows *sql.Rows) (SessionSummary, error) {
	var summary SessionSummary
	var createdAt string
	if err := rows.Scan(&summary.ID, &summary.Query, &createdAt, &summary.ToolCount); err != nil {
		return SessionSummary{}, err
	}
	summary.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return summary, nil
}
