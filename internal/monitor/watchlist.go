package monitor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/solana"
)

// Watchlist is the process-lifetime set of monitored wallet addresses.
// Mutated from the Telegram command bot while the poll loop reads it, so
// all access is mutex guarded and List returns copies.
type Watchlist struct {
	mu      sync.RWMutex
	wallets map[string]*domain.WalletWatch
}

// NewWatchlist creates an empty watchlist.
func NewWatchlist() *Watchlist {
	return &Watchlist{wallets: make(map[string]*domain.WalletWatch)}
}

// Add validates and registers a wallet address. chatID routes that wallet's
// alerts to a specific Telegram chat, 0 uses the default chat.
func (w *Watchlist) Add(address string, chatID int64) error {
	if !solana.IsValidAddress(address) {
		return fmt.Errorf("invalid wallet address: %q", address)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wallets[address]; exists {
		return fmt.Errorf("wallet already monitored: %s", address)
	}

	w.wallets[address] = &domain.WalletWatch{
		Address: address,
		ChatID:  chatID,
		AddedAt: time.Now(),
	}
	return nil
}

// Remove unregisters a wallet address.
func (w *Watchlist) Remove(address string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.wallets[address]; !exists {
		return fmt.Errorf("wallet not monitored: %s", address)
	}
	delete(w.wallets, address)
	return nil
}

// Get returns the watch entry for an address, or nil.
func (w *Watchlist) Get(address string) *domain.WalletWatch {
	w.mu.RLock()
	defer w.mu.RUnlock()

	watch, exists := w.wallets[address]
	if !exists {
		return nil
	}
	watchCopy := *watch
	return &watchCopy
}

// List returns all watched wallets sorted by address.
func (w *Watchlist) List() []*domain.WalletWatch {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]*domain.WalletWatch, 0, len(w.wallets))
	for _, watch := range w.wallets {
		watchCopy := *watch
		result = append(result, &watchCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result
}

// Len returns the number of watched wallets.
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.wallets)
}
