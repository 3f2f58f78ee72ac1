package store

import (
	"context"
	"fmt"
)

// Options selects and configures a Backend.
type Options struct {
	Backend     string // file|sqlite|postgres|redis
	DataDir     string
	SQLitePath  string
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case "", "file":
		return NewFileBackend(opts.DataDir)
	case "sqlite":
		return NewSQLiteBackend(ctx, opts.SQLitePath)
	case "postgres":
		return NewPostgresBackend(ctx, opts.DatabaseURL)
	case "redis":
		r := NewRedis(opts.RedisAddr)
		if !r.Healthy(ctx) {
			_ = r.Client.Close()
			return nil, fmt.Errorf("redis %s not reachable", opts.RedisAddr)
		}
		return NewRedisBackend(r, opts.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
