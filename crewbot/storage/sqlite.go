package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// SQLite keeps the document in a single-row table of a local database.
// Use ":memory:" for a throwaway database.
type SQLite struct {
	db  *sql.DB
	key string
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive between calls.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, key: DocumentKey}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS crew_state (
		id TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		version INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLite) Name() string {
	return "sqlite"
}

func (s *SQLite) Read(ctx context.Context) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM crew_state WHERE id = ?", s.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crew.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return []byte(doc), nil
}

func (s *SQLite) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO crew_state (id, document, version, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		document = excluded.document,
		version = excluded.version,
		updated_at = excluded.updated_at`,
		s.key, string(data), crew.SchemaVersion, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
