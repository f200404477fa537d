package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// SQLite Backend
// ============================================================

//go:embed migrations/001_init_board.sql
var initSchema string

type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Init applies the schema.
func (s *SQLite) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSchema); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, ownerID, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT value
        FROM board_state
        WHERE owner_id = ? AND key = ?
    `, ownerID, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s/%s: %w", ownerID, key, err)
	}
	return value, true, nil
}

func (s *SQLite) Put(ctx context.Context, ownerID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO board_state (owner_id, key, value, updated_at)
        VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
        ON CONFLICT (owner_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at
    `, ownerID, key, value)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", ownerID, key, err)
	}
	return nil
}

// Ping checks the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// OpenSQLite opens the sqlite file at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
