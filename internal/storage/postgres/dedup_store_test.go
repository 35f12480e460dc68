package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-sentry/internal/storage"
)

func TestDedupStore_TryClaimAlert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	claimed, err := store.TryClaimAlert(ctx, "Bonk", "mint1", "wallet1", "sig1")
	require.NoError(t, err)
	assert.True(t, claimed, "first claim should succeed")

	claimed, err = store.TryClaimAlert(ctx, "Bonk", "mint1", "wallet2", "sig2")
	require.NoError(t, err)
	assert.False(t, claimed, "duplicate claim should be suppressed")
}

func TestDedupStore_SameMintDifferentName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	claimed, err := store.TryClaimAlert(ctx, "TokenA", "mint1", "w", "s1")
	require.NoError(t, err)
	require.True(t, claimed)

	// Same mint under a new name is a distinct pair.
	claimed, err = store.TryClaimAlert(ctx, "TokenB", "mint1", "w", "s2")
	require.NoError(t, err)
	assert.True(t, claimed, "claim under a different token name should succeed")
}

func TestDedupStore_ConcurrentClaims(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.TryClaimAlert(ctx, "Bonk", "mint1", "w", "s")
			if err != nil {
				t.Errorf("TryClaimAlert failed: %v", err)
				return
			}
			results <- claimed
		}()
	}
	wg.Wait()
	close(results)

	var winners int
	for claimed := range results {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent claim should win")
}

func TestDedupStore_Signatures(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	seen, err := store.HasProcessedSignature(ctx, "sig1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.RecordSignature(ctx, "sig1"))
	// Idempotent.
	require.NoError(t, store.RecordSignature(ctx, "sig1"))

	seen, err = store.HasProcessedSignature(ctx, "sig1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestDedupStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	_, err := store.TryClaimAlert(ctx, "", "mint1", "w", "s")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.TryClaimAlert(ctx, "Bonk", "", "w", "s")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.RecordSignature(ctx, "")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.Cleanup(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestDedupStore_CleanupAndStats(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDedupStore(pool)
	ctx := context.Background()

	claimed, err := store.TryClaimAlert(ctx, "Bonk", "mint1", "w", "s1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.RecordSignature(ctx, "sig1"))
	require.NoError(t, store.RecordSignature(ctx, "sig2"))

	// Backdate one signature beyond the retention window.
	_, err = pool.Exec(ctx, `
		UPDATE processed_signatures
		SET processed_at = NOW() - INTERVAL '10 days'
		WHERE signature = 'sig1'
	`)
	require.NoError(t, err)

	removed, err := store.Cleanup(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalAlerts)
	assert.Equal(t, int64(1), st.TotalSignatures)
	assert.GreaterOrEqual(t, st.OldestEntryAge, time.Duration(0))
}
