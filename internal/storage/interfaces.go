package storage

import (
	"context"
	"time"

	"solana-wallet-sentry/internal/domain"
)

// Stats summarizes dedup store contents for introspection.
type Stats struct {
	TotalAlerts     int64         // rows in processed_tokens
	TotalSignatures int64         // rows in processed_signatures
	OldestEntryAge  time.Duration // age of the oldest row across both tables, 0 when empty
}

// DedupStore is the persistent record of which (token_name, mint) pairs and
// which transaction signatures have already produced an alert.
//
// The claim identity is the (token_name, mint) pair: the same mint under a
// different token name is a distinct alertable entity. This handles rebrands
// and homoglyph mints and is a deliberate policy, not an oversight.
type DedupStore interface {
	// HasProcessedSignature reports whether sig was already classified.
	HasProcessedSignature(ctx context.Context, sig string) (bool, error)

	// RecordSignature marks sig as classified. Idempotent: recording an
	// already-present signature is a no-op.
	RecordSignature(ctx context.Context, sig string) error

	// TryClaimAlert atomically records the (tokenName, mint) pair if absent.
	// Returns true when the claim succeeded (caller should alert) and false
	// when the pair was already recorded (suppress). The check-and-insert is
	// a single atomic operation safe under concurrent poll cycles.
	TryClaimAlert(ctx context.Context, tokenName, mint, wallet, signature string) (bool, error)

	// Cleanup deletes all rows strictly older than the retention window and
	// returns the number of rows removed. Idempotent.
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)

	// Stats returns store counters for the /stats command.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the underlying database handle.
	Close() error
}

// AlertHistoryStore is an optional analytics sink for dispatched alerts.
type AlertHistoryStore interface {
	// Append records dispatched alerts. Failures must not block dispatch.
	Append(ctx context.Context, alerts []*domain.Alert) error

	Close() error
}
