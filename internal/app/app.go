// Package app wires configuration into the services shared by the binaries.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rollbook/internal/accounts"
	"rollbook/internal/attendance"
	"rollbook/internal/config"
	"rollbook/internal/queue"
	"rollbook/internal/store"
	"rollbook/internal/tenant"
)

// Services are the domain services backed by one snapshot store.
type Services struct {
	Backend    store.Backend
	Codes      *tenant.Registry
	Accounts   *accounts.Service
	Attendance *attendance.Service
}

// Open connects the configured store backend and builds the services on it.
func Open(ctx context.Context, cfg config.App, log *zap.Logger) (*Services, error) {
	backend, err := store.Open(ctx, store.Options{
		Backend:     cfg.StoreBackend,
		DataDir:     cfg.DataDir,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	hasher, err := accounts.HasherByName(cfg.PasswordHasher)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	denom, err := attendance.ParseDenominator(cfg.Denominator)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	codes := tenant.NewRegistry(backend, log)
	admin := accounts.StaticAdmin{Username: cfg.AdminUsername, Password: cfg.AdminPassword}
	return &Services{
		Backend:  backend,
		Codes:    codes,
		Accounts: accounts.NewService(backend, codes, admin, hasher, log),
		Attendance: attendance.NewService(attendance.NewRepository(backend, log),
			attendance.WithDenominator(denom), attendance.WithLogger(log)),
	}, nil
}

func (s *Services) Close() error { return s.Backend.Close() }

// OpenQueue returns the configured event queue. Memory queues only connect
// producers and consumers inside one process.
func OpenQueue(ctx context.Context, cfg config.App, log *zap.Logger) (queue.Queue, func() error, error) {
	switch cfg.QueueBackend {
	case "", "memory":
		return queue.NewInMemory(64), func() error { return nil }, nil
	case "redis":
		r := store.NewRedis(cfg.RedisAddr)
		if !r.Healthy(ctx) {
			_ = r.Client.Close()
			return nil, nil, fmt.Errorf("redis %s not reachable", cfg.RedisAddr)
		}
		return queue.NewRedisQueue(r.Client, cfg.QueueKey, log), r.Client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}

// Health reports the store and, for queues that can be pinged, the queue.
func Health(svc *Services, q queue.Queue, log *zap.Logger) func(context.Context) map[string]bool {
	if log == nil {
		log = zap.NewNop()
	}
	pinger, _ := q.(interface{ Ping(context.Context) error })
	return func(ctx context.Context) map[string]bool {
		_, err := svc.Codes.List(ctx)
		if err != nil {
			log.Warn("health: store check failed", zap.Error(err))
		}
		checks := map[string]bool{"store": err == nil}
		if pinger != nil {
			checks["queue"] = pinger.Ping(ctx) == nil
		}
		return checks
	}
}
