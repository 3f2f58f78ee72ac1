package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLBackend keeps documents as rows of the snapshots table.
type SQLBackend struct {
	Client *sql.DB

	loadQuery string
	saveQuery string
}

// NewPostgresBackend opens Postgres through pgx and applies migrations.
func NewPostgresBackend(ctx context.Context, connString string) (*SQLBackend, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return newSQLBackend(ctx, db, goose.DialectPostgres,
		`SELECT body FROM snapshots WHERE name = $1`,
		`INSERT INTO snapshots (name, body, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`)
}

func newSQLBackend(ctx context.Context, db *sql.DB, dialect goose.Dialect, loadQuery, saveQuery string) (*SQLBackend, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLBackend{Client: db, loadQuery: loadQuery, saveQuery: saveQuery}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Load returns the stored body for name.
func (b *SQLBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.Client.QueryRowContext(ctx, b.loadQuery, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// Save upserts the whole body in one statement.
func (b *SQLBackend) Save(ctx context.Context, name string, body []byte) error {
	_, err := b.Client.ExecContext(ctx, b.saveQuery, name, string(body), time.Now().UTC())
	return err
}

// Close closes the underlying connection.
func (b *SQLBackend) Close() error {
	if b == nil || b.Client == nil {
		return nil
	}
	return b.Client.Close()
}
