package postgres

import (
	"context"
	"errors"
	"time"

	"solana-wallet-sentry/internal/storage"
)

// DedupStore is a PostgreSQL implementation of storage.DedupStore.
// Uses two tables:
//   - processed_tokens: claimed (token_name, mint_address) pairs
//   - processed_signatures: set of classified transaction signatures
type DedupStore struct {
	pool *Pool
}

// NewDedupStore creates a new PostgreSQL dedup store.
func NewDedupStore(pool *Pool) *DedupStore {
	return &DedupStore{pool: pool}
}

// HasProcessedSignature checks if a transaction signature has been classified.
func (s *DedupStore) HasProcessedSignature(ctx context.Context, sig string) (bool, error) {
	if sig == "" {
		return false, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_signatures WHERE signature = $1)
	`, sig)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// RecordSignature records that a transaction signature has been classified.
func (s *DedupStore) RecordSignature(ctx context.Context, sig string) error {
	if sig == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO processed_signatures (signature, processed_at)
		VALUES ($1, NOW())
		ON CONFLICT (signature) DO NOTHING
	`, sig)

	return err
}

// TryClaimAlert inserts the (tokenName, mint) pair. The unique constraint
// arbitrates concurrent claims: the losing insert surfaces as a duplicate
// key error and is reported as claimed=false.
func (s *DedupStore) TryClaimAlert(ctx context.Context, tokenName, mint, wallet, signature string) (bool, error) {
	if tokenName == "" || mint == "" {
		return false, storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO processed_tokens (token_name, mint_address, wallet_address, tx_signature, processed_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, tokenName, mint, wallet, signature)
	if err != nil {
		if err = translateError(err); errors.Is(err, storage.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Cleanup deletes rows older than the retention window from both tables.
func (s *DedupStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, storage.ErrInvalidInput
	}
	cutoff := time.Now().UTC().Add(-retention)

	var removed int64
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM processed_tokens WHERE processed_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	removed += tag.RowsAffected()

	tag, err = s.pool.Exec(ctx, `
		DELETE FROM processed_signatures WHERE processed_at < $1
	`, cutoff)
	if err != nil {
		return removed, err
	}
	removed += tag.RowsAffected()

	return removed, nil
}

// Stats returns row counts and the age of the oldest retained row.
func (s *DedupStore) Stats(ctx context.Context) (storage.Stats, error) {
	var st storage.Stats

	row := s.pool.QueryRow(ctx, `
		SELECT
		    (SELECT COUNT(*) FROM processed_tokens),
		    (SELECT COUNT(*) FROM processed_signatures),
		    (SELECT MIN(processed_at) FROM (
		        SELECT processed_at FROM processed_tokens
		        UNION ALL
		        SELECT processed_at FROM processed_signatures
		    ) all_rows)
	`)

	var oldest *time.Time
	if err := row.Scan(&st.TotalAlerts, &st.TotalSignatures, &oldest); err != nil {
		return st, err
	}
	if oldest != nil {
		st.OldestEntryAge = time.Since(*oldest)
	}

	return st, nil
}

// Close is a no-op: the pool is owned and closed by the caller.
func (s *DedupStore) Close() error { return nil }

// Verify interface compliance at compile time.
var _ storage.DedupStore = (*DedupStore)(nil)
