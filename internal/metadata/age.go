package metadata

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-sentry/internal/solana"
)

// maxAgePages bounds the signature pagination walk. Very active mints have
// endless history; past this depth the age is already "old enough".
const maxAgePages = 10

// AgeEstimator approximates a token's age from the block time of its
// oldest reachable transaction. Used when no DEX pairing age is available.
type AgeEstimator struct {
	rpc solana.RPCClient
	now func() time.Time
}

// NewAgeEstimator creates a token age estimator.
func NewAgeEstimator(rpc solana.RPCClient) *AgeEstimator {
	return &AgeEstimator{rpc: rpc, now: time.Now}
}

// TokenAge walks the mint's signature history backwards and returns the age
// derived from the oldest block time found. Returns nil when no timestamped
// signature is reachable.
func (e *AgeEstimator) TokenAge(ctx context.Context, mint string) (*time.Duration, error) {
	var oldest *int64
	var oldestSlot int64
	var before string

	for page := 0; page < maxAgePages; page++ {
		opts := &solana.SignaturesOpts{Limit: 1000}
		if before != "" {
			opts.Before = before
		}

		sigs, err := e.rpc.GetSignaturesForAddress(ctx, mint, opts)
		if err != nil {
			return nil, fmt.Errorf("get mint signatures: %w", err)
		}
		if len(sigs) == 0 {
			break
		}

		// Results are newest first, so the last entry is the oldest so far.
		last := sigs[len(sigs)-1]
		if last.BlockTime != nil {
			oldest = last.BlockTime
		}
		oldestSlot = last.Slot
		before = last.Signature

		if len(sigs) < 1000 {
			break // reached the beginning of history
		}
	}

	// Some RPC nodes return signatures without blockTime. Fall back to the
	// block timestamp of the oldest reachable slot.
	if oldest == nil && oldestSlot > 0 {
		bt, err := e.rpc.GetBlockTime(ctx, oldestSlot)
		if err != nil {
			return nil, fmt.Errorf("get block time: %w", err)
		}
		oldest = bt
	}

	if oldest == nil {
		return nil, nil
	}

	age := e.now().Sub(time.Unix(*oldest, 0))
	if age < 0 {
		age = 0
	}
	return &age, nil
}
