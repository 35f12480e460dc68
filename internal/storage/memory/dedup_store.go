package memory

import (
	"context"
	"sync"
	"time"

	"solana-wallet-sentry/internal/storage"
)

// DedupStore is an in-memory implementation of storage.DedupStore.
// State is lost on restart, so it is only suitable for tests and dry runs.
type DedupStore struct {
	mu         sync.Mutex
	alerts     map[alertKey]time.Time // claimed (token_name, mint) pairs
	signatures map[string]time.Time   // processed transaction signatures
	now        func() time.Time
}

type alertKey struct {
	tokenName string
	mint      string
}

// NewDedupStore creates a new in-memory dedup store.
func NewDedupStore() *DedupStore {
	return &DedupStore{
		alerts:     make(map[alertKey]time.Time),
		signatures: make(map[string]time.Time),
		now:        time.Now,
	}
}

// HasProcessedSignature reports whether sig was already classified.
func (s *DedupStore) HasProcessedSignature(_ context.Context, sig string) (bool, error) {
	if sig == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.signatures[sig]
	return exists, nil
}

// RecordSignature marks sig as classified. Recording twice is a no-op.
func (s *DedupStore) RecordSignature(_ context.Context, sig string) error {
	if sig == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.signatures[sig]; !exists {
		s.signatures[sig] = s.now()
	}
	return nil
}

// TryClaimAlert records the (tokenName, mint) pair if absent. Returns true
// when this call made the claim, false when the pair was already present.
func (s *DedupStore) TryClaimAlert(_ context.Context, tokenName, mint, wallet, signature string) (bool, error) {
	if tokenName == "" || mint == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := alertKey{tokenName: tokenName, mint: mint}
	if _, exists := s.alerts[key]; exists {
		return false, nil
	}
	s.alerts[key] = s.now()
	return true, nil
}

// Cleanup deletes rows older than the retention window.
func (s *DedupStore) Cleanup(_ context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-retention)
	var removed int64
	for key, at := range s.alerts {
		if at.Before(cutoff) {
			delete(s.alerts, key)
			removed++
		}
	}
	for sig, at := range s.signatures {
		if at.Before(cutoff) {
			delete(s.signatures, sig)
			removed++
		}
	}
	return removed, nil
}

// Stats returns counts and the age of the oldest retained entry.
func (s *DedupStore) Stats(_ context.Context) (storage.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := storage.Stats{
		TotalAlerts:     int64(len(s.alerts)),
		TotalSignatures: int64(len(s.signatures)),
	}

	var oldest time.Time
	for _, at := range s.alerts {
		if oldest.IsZero() || at.Before(oldest) {
			oldest = at
		}
	}
	for _, at := range s.signatures {
		if oldest.IsZero() || at.Before(oldest) {
			oldest = at
		}
	}
	if !oldest.IsZero() {
		st.OldestEntryAge = s.now().Sub(oldest)
	}
	return st, nil
}

// Close is a no-op for the in-memory store.
func (s *DedupStore) Close() error { return nil }

// Verify interface compliance at compile time.
var _ storage.DedupStore = (*DedupStore)(nil)
