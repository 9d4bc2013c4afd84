// Package session keeps a record of background processes started by
// launches. The registry is purely informational bookkeeping for an
// external supervisor; the launcher never uses it for process control.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Session is one recorded background process.
type Session struct {
	ID        string
	PID       int
	PGID      int
	Label     string
	StartedAt time.Time
}

// Registry persists sessions in a SQLite database under dataDir.
type Registry struct {
	db *sql.DB
}

// NewRegistry opens (creating if necessary) the session database.
func NewRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &Registry{db: db}
	if err := r.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize registry: %w", err)
	}
	return r, nil
}

// init creates the database schema
func (r *Registry) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		pid INTEGER NOT NULL,
		pgid INTEGER NOT NULL,
		label TEXT NOT NULL,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Add records a started process. It never blocks on anything beyond the
// single insert.
func (r *Registry) Add(pid int, label string, pgid int) error {
	_, err := r.db.Exec(
		"INSERT INTO sessions (id, pid, pgid, label, started_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), pid, pgid, label, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// List returns all recorded sessions, newest first.
func (r *Registry) List() ([]*Session, error) {
	rows, err := r.db.Query("SELECT id, pid, pgid, label, started_at FROM sessions ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		if err := rows.Scan(&s.ID, &s.PID, &s.PGID, &s.Label, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}
