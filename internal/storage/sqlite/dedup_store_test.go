package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *DedupStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "sentry.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDedupStore_TryClaimAlert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	claimed, err := store.TryClaimAlert(ctx, "Bonk", "mint1", "wallet1", "sig1")
	if err != nil {
		t.Fatalf("TryClaimAlert failed: %v", err)
	}
	if !claimed {
		t.Error("Expected first claim to succeed")
	}

	claimed, err = store.TryClaimAlert(ctx, "Bonk", "mint1", "wallet2", "sig2")
	if err != nil {
		t.Fatalf("TryClaimAlert failed: %v", err)
	}
	if claimed {
		t.Error("Expected duplicate claim to be suppressed")
	}
}

func TestDedupStore_SameMintDifferentName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if claimed, _ := store.TryClaimAlert(ctx, "TokenA", "mint1", "w", "s1"); !claimed {
		t.Fatal("Expected first claim to succeed")
	}
	claimed, err := store.TryClaimAlert(ctx, "TokenB", "mint1", "w", "s2")
	if err != nil {
		t.Fatalf("TryClaimAlert failed: %v", err)
	}
	if !claimed {
		t.Error("Expected claim under a different token name to succeed")
	}
}

func TestDedupStore_ConcurrentClaims(t *testing.T) {
	store := newTestStore(t)
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
	if winners != 1 {
		t.Errorf("Expected exactly 1 winning claim, got %d", winners)
	}
}

func TestDedupStore_Signatures(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen, err := store.HasProcessedSignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("HasProcessedSignature failed: %v", err)
	}
	if seen {
		t.Error("Expected unseen signature")
	}

	if err := store.RecordSignature(ctx, "sig1"); err != nil {
		t.Fatalf("RecordSignature failed: %v", err)
	}
	if err := store.RecordSignature(ctx, "sig1"); err != nil {
		t.Fatalf("Second RecordSignature failed: %v", err)
	}

	seen, err = store.HasProcessedSignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("HasProcessedSignature failed: %v", err)
	}
	if !seen {
		t.Error("Expected signature to be recorded")
	}
}

func TestDedupStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentry.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if claimed, _ := store.TryClaimAlert(ctx, "Bonk", "mint1", "w", "s"); !claimed {
		t.Fatal("Expected first claim to succeed")
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()

	claimed, err := store.TryClaimAlert(ctx, "Bonk", "mint1", "w", "s")
	if err != nil {
		t.Fatalf("TryClaimAlert failed: %v", err)
	}
	if claimed {
		t.Error("Expected claim to be suppressed after reopen")
	}
}

func TestDedupStore_CleanupAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.TryClaimAlert(ctx, "Bonk", "mint1", "w", "s1")
	store.RecordSignature(ctx, "sig1")
	store.RecordSignature(ctx, "sig2")

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.TotalAlerts != 1 {
		t.Errorf("TotalAlerts: got %d, want 1", st.TotalAlerts)
	}
	if st.TotalSignatures != 2 {
		t.Errorf("TotalSignatures: got %d, want 2", st.TotalSignatures)
	}

	// All rows are fresh, nothing falls outside a 7 day window.
	removed, err := store.Cleanup(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 rows removed, got %d", removed)
	}

	// A zero-length window is rejected rather than wiping the store.
	if _, err := store.Cleanup(ctx, 0); err == nil {
		t.Error("Expected error for non-positive retention")
	}
}
