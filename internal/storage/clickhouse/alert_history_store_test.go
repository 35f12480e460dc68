package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/storage"
)

func TestAlertHistoryStore_AppendAndRecent(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAlertHistoryStore(conn)
	ctx := context.Background()

	age := 90 * time.Minute
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	alerts := []*domain.Alert{
		{
			DetectedAt: base,
			TokenName:  "Bonk",
			Symbol:     "BONK",
			Mint:       "mint1",
			Wallet:     "wallet1",
			Signature:  "sig1",
			Amount:     1000,
			PriceUSD:   ptr(0.000012),
			Dex:        ptr("raydium"),
			Age:        &age,
		},
		{
			DetectedAt: base.Add(time.Minute),
			TokenName:  "Unknown",
			Symbol:     "UNKNOWN",
			Mint:       "mint2",
			Wallet:     "wallet1",
			Signature:  "sig2",
			Amount:     5,
		},
	}

	require.NoError(t, store.Append(ctx, alerts))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "mint2", got[0].Mint)
	assert.Nil(t, got[0].PriceUSD)
	assert.Nil(t, got[0].Dex)
	assert.Nil(t, got[0].Age)

	assert.Equal(t, "Bonk", got[1].TokenName)
	require.NotNil(t, got[1].PriceUSD)
	assert.InDelta(t, 0.000012, *got[1].PriceUSD, 1e-12)
	require.NotNil(t, got[1].Age)
	assert.Equal(t, 90*time.Minute, *got[1].Age)
}

func TestAlertHistoryStore_AppendEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAlertHistoryStore(conn)
	require.NoError(t, store.Append(context.Background(), nil))
}

func TestAlertHistoryStore_RecentLimit(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAlertHistoryStore(conn)
	ctx := context.Background()

	var alerts []*domain.Alert
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		alerts = append(alerts, &domain.Alert{
			DetectedAt: base.Add(time.Duration(i) * time.Second),
			TokenName:  "Token",
			Symbol:     "TKN",
			Mint:       "mint",
			Wallet:     "w",
			Signature:  "s",
			Amount:     float64(i),
		})
	}
	require.NoError(t, store.Append(ctx, alerts))

	got, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = store.Recent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
