package domain

import "time"

// WalletWatch represents a monitored wallet address.
// Lives in the process-lifetime watchlist, keyed by address.
type WalletWatch struct {
	Address string    // base58 wallet address
	ChatID  int64     // Telegram chat that receives alerts for this wallet (0 = default chat)
	AddedAt time.Time // when the wallet was added
}
