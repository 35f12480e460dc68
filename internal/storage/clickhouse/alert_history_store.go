package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/storage"
)

// AlertHistoryStore implements storage.AlertHistoryStore using ClickHouse.
// The table is append-only: dedup is enforced upstream, history keeps every
// dispatched alert for offline analysis.
type AlertHistoryStore struct {
	conn *Conn
}

// NewAlertHistoryStore creates a new AlertHistoryStore.
func NewAlertHistoryStore(conn *Conn) *AlertHistoryStore {
	return &AlertHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AlertHistoryStore = (*AlertHistoryStore)(nil)

// Append records dispatched alerts in a single batch.
func (s *AlertHistoryStore) Append(ctx context.Context, alerts []*domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO alert_history (
			detected_at, token_name, symbol, mint_address, wallet_address,
			tx_signature, amount, price_usd, dex, token_age_seconds
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range alerts {
		var ageSeconds *int64
		if a.Age != nil {
			secs := int64(a.Age.Seconds())
			ageSeconds = &secs
		}

		err = batch.Append(
			a.DetectedAt, a.TokenName, a.Symbol, a.Mint, a.Wallet,
			a.Signature, a.Amount, a.PriceUSD, a.Dex, ageSeconds,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// Recent retrieves the most recent alerts, newest first.
func (s *AlertHistoryStore) Recent(ctx context.Context, limit int) ([]*domain.Alert, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT detected_at, token_name, symbol, mint_address, wallet_address,
		       tx_signature, amount, price_usd, dex, token_age_seconds
		FROM alert_history
		ORDER BY detected_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		var a domain.Alert
		var ageSeconds *int64

		err := rows.Scan(
			&a.DetectedAt, &a.TokenName, &a.Symbol, &a.Mint, &a.Wallet,
			&a.Signature, &a.Amount, &a.PriceUSD, &a.Dex, &ageSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert history row: %w", err)
		}

		if ageSeconds != nil {
			age := time.Duration(*ageSeconds) * time.Second
			a.Age = &age
		}
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert history rows: %w", err)
	}

	return alerts, nil
}

// Close closes the underlying connection.
func (s *AlertHistoryStore) Close() error {
	return s.conn.Close()
}
