package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL container for testing and applies the
// schema. Returns a cleanup function that must be called after tests
// complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	applySchema(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// applySchema creates the dedup tables. Mirrors the embedded migrations,
// inlined here to keep the test package free of an import cycle with
// the migrations package.
func applySchema(t *testing.T, ctx context.Context, pool *Pool) {
	t.Helper()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS processed_tokens (
		    id BIGSERIAL PRIMARY KEY,
		    token_name TEXT NOT NULL,
		    mint_address TEXT NOT NULL,
		    wallet_address TEXT NOT NULL DEFAULT '',
		    tx_signature TEXT NOT NULL DEFAULT '',
		    processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		    UNIQUE (token_name, mint_address)
		)
	`)
	require.NoError(t, err, "failed to create processed_tokens")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS processed_signatures (
		    signature TEXT PRIMARY KEY,
		    processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	require.NoError(t, err, "failed to create processed_signatures")
}
