// Package sqlite implements storage.DedupStore on an embedded SQLite
// database. This is the default backend: a single file, no server, and
// durable enough to survive restarts without re-alerting.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"solana-wallet-sentry/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    token_name TEXT NOT NULL,
    mint_address TEXT NOT NULL,
    wallet_address TEXT NOT NULL DEFAULT '',
    tx_signature TEXT NOT NULL DEFAULT '',
    processed_at DATETIME NOT NULL,
    UNIQUE(token_name, mint_address)
);

CREATE TABLE IF NOT EXISTS processed_signatures (
    signature TEXT PRIMARY KEY,
    processed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_tokens_processed_at
    ON processed_tokens(processed_at);
CREATE INDEX IF NOT EXISTS idx_processed_signatures_processed_at
    ON processed_signatures(processed_at);
`

// DedupStore is a SQLite-backed implementation of storage.DedupStore.
type DedupStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*DedupStore, error) {
	// busy_timeout makes concurrent poll cycles wait instead of failing
	// with SQLITE_BUSY immediately.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}

	return &DedupStore{db: db}, nil
}

// HasProcessedSignature reports whether sig was already classified.
func (s *DedupStore) HasProcessedSignature(ctx context.Context, sig string) (bool, error) {
	if sig == "" {
		return false, storage.ErrInvalidInput
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM processed_signatures WHERE signature = ?`, sig,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("querying processed signature: %w", err)
	}
	return exists > 0, nil
}

// RecordSignature marks sig as classified. Idempotent.
func (s *DedupStore) RecordSignature(ctx context.Context, sig string) error {
	if sig == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_signatures (signature, processed_at) VALUES (?, ?)`,
		sig, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording signature: %w", err)
	}
	return nil
}

// TryClaimAlert atomically records the (tokenName, mint) pair. The UNIQUE
// constraint makes INSERT OR IGNORE the claim: one affected row means this
// call won, zero means the pair was already claimed.
func (s *DedupStore) TryClaimAlert(ctx context.Context, tokenName, mint, wallet, signature string) (bool, error) {
	if tokenName == "" || mint == "" {
		return false, storage.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_tokens
		     (token_name, mint_address, wallet_address, tx_signature, processed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tokenName, mint, wallet, signature, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("claiming alert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading claim result: %w", err)
	}
	return affected == 1, nil
}

// Cleanup deletes rows older than the retention window from both tables.
func (s *DedupStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, storage.ErrInvalidInput
	}
	cutoff := time.Now().UTC().Add(-retention)

	var removed int64
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM processed_tokens WHERE processed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning processed tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	removed += n

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM processed_signatures WHERE processed_at < ?`, cutoff)
	if err != nil {
		return removed, fmt.Errorf("cleaning processed signatures: %w", err)
	}
	n, _ = res.RowsAffected()
	removed += n

	return removed, nil
}

// Stats returns row counts and the age of the oldest retained row.
func (s *DedupStore) Stats(ctx context.Context) (storage.Stats, error) {
	var st storage.Stats

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM processed_tokens`).Scan(&st.TotalAlerts)
	if err != nil {
		return st, fmt.Errorf("counting processed tokens: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM processed_signatures`).Scan(&st.TotalSignatures)
	if err != nil {
		return st, fmt.Errorf("counting processed signatures: %w", err)
	}

	var oldest sql.NullTime
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(processed_at) FROM (
		    SELECT processed_at FROM processed_tokens
		    UNION ALL
		    SELECT processed_at FROM processed_signatures
		)`).Scan(&oldest)
	if err != nil {
		return st, fmt.Errorf("finding oldest entry: %w", err)
	}
	if oldest.Valid {
		st.OldestEntryAge = time.Since(oldest.Time)
	}
	return st, nil
}

// Close closes the underlying database handle.
func (s *DedupStore) Close() error {
	return s.db.Close()
}

// Verify interface compliance at compile time.
var _ storage.DedupStore = (*DedupStore)(nil)
