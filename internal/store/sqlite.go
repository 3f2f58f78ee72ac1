package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// NewSQLiteBackend opens (or creates) a SQLite file and applies migrations.
func NewSQLiteBackend(ctx context.Context, dbPath string) (*SQLBackend, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return newSQLBackend(ctx, db, goose.DialectSQLite3,
		`SELECT body FROM snapshots WHERE name = ?`,
		`INSERT INTO snapshots (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`)
}
