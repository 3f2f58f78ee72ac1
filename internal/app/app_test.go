package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollbook/internal/config"
	"rollbook/internal/queue"
)

func TestOpenFileStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.App{StoreBackend: "file", DataDir: t.TempDir(), PasswordHasher: "bcrypt", Denominator: "classes",
		AdminUsername: "admin", AdminPassword: "secret"}

	svc, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Codes.Add(ctx, "U1"))
	require.NoError(t, svc.Accounts.Register(ctx, "t", "pw", "pw", "U1"))
	s, err := svc.Accounts.Authenticate(ctx, "t", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t", s.Username)

	admin, err := svc.Accounts.AuthenticateAdmin(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestOpenRejectsUnknownSettings(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, config.App{StoreBackend: "floppy"}, nil)
	assert.Error(t, err)

	_, err = Open(ctx, config.App{StoreBackend: "file", DataDir: t.TempDir(), PasswordHasher: "md5"}, nil)
	assert.Error(t, err)

	_, err = Open(ctx, config.App{StoreBackend: "file", DataDir: t.TempDir(), Denominator: "weeks"}, nil)
	assert.Error(t, err)

	_, _, err = OpenQueue(ctx, config.App{QueueBackend: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

func TestOpenQueueMemory(t *testing.T) {
	q, closeFn, err := OpenQueue(context.Background(), config.App{QueueBackend: "memory"}, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &queue.InMemory{}, q)
}

func TestHealthUsesQueueConnection(t *testing.T) {
	ctx := context.Background()
	svc, err := Open(ctx, config.App{StoreBackend: "file", DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, map[string]bool{"store": true}, Health(svc, queue.NewInMemory(1), nil)(ctx))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	check := Health(svc, queue.NewRedisQueue(client, "", nil), nil)
	assert.Equal(t, map[string]bool{"store": true, "queue": true}, check(ctx))

	mr.Close()
	assert.Equal(t, map[string]bool{"store": true, "queue": false}, check(ctx))
}
