//go:build testutil
// +build testutil

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresBackend(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("rollbook"),
		postgres.WithUsername("rollbook"),
		postgres.WithPassword("rollbook"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	defer func() { _ = pg.Terminate(context.Background()) }()

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	b, err := NewPostgresBackend(ctx, uri)
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)
}
