// Package storage provides the local durable state of the terminal: named
// JSON blobs keyed by record name, backed by a single SQLite file.
//
// Reads and writes deliberately swallow their errors. A record that is
// missing or no longer parses falls back to whatever the caller pre-loaded
// into the destination, and a failed write leaves the in-memory state as the
// source of truth until the next flush. Both cases are logged.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates the state database at path, creating parent directories and
// the records table as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	// Local single-terminal state; one connection avoids write contention.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: slog.Default()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("migrating state database: %w", err)
	}

	return nil
}

// Read unmarshals the record stored under key into dst. A missing or
// malformed record leaves dst untouched, so callers pre-populate dst with
// the fallback value.
func (s *Store) Read(key string, dst any) {
	var raw []byte

	err := s.db.QueryRowContext(context.Background(),
		`SELECT value FROM records WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Error("reading record", "key", key, "error", err)
		}

		return
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Error("parsing record, keeping fallback", "key", key, "error", err)
	}
}

// Write serializes v and stores it under key. Failures are logged, never
// returned: in-memory state stays authoritative and the record will be
// rewritten on the next mutation.
func (s *Store) Write(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encoding record", "key", key, "error", err)
		return
	}

	_, err = s.db.ExecContext(context.Background(), `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, raw)
	if err != nil {
		s.log.Error("writing record", "key", key, "error", err)
	}
}

// Delete removes the record stored under key. Best-effort like Write.
func (s *Store) Delete(key string) {
	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM records WHERE key = ?`, key); err != nil {
		s.log.Error("deleting record", "key", key, "error", err)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
