// Package db provides SQLite persistence for interactions and outbreak
// alerts. The store is the sole source of truth surviving a restart; the
// in-memory cluster index is a rebuildable cache on top of it.
package db

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database. All writes serialize on an internal
// mutex so multi-statement inserts from concurrent requests never
// interleave; reads go through database/sql's own pooling.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store at the given path, creating tables as needed.
// Pass ":memory:" for an in-memory database (used by tests).
func Open(path string) (*Store, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reporter TEXT,
		message TEXT,
		response TEXT,
		language TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		lat REAL,
		lng REAL,
		symptoms TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_interactions_reporter ON interactions(reporter);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		alert_type TEXT,
		location TEXT,
		area TEXT,
		symptoms TEXT,
		case_count INTEGER,
		severity TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		status TEXT DEFAULT 'ACTIVE'
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
