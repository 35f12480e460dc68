package domain

import "time"

// TokenEvent represents a detected "wallet acquired a new SPL token" event.
// Produced by the classifier from a single transaction; one event per
// distinct mint involved.
type TokenEvent struct {
	Mint           string    // token mint address
	Wallet         string    // monitored wallet address
	Signature      string    // transaction signature
	DetectedAt     time.Time // when the classifier saw the transaction
	BlockTime      int64     // transaction block time (unix seconds, 0 if unknown)
	InferredAmount float64   // post-pre uiAmount delta for the wallet's balance
	Decimals       int       // token decimals from the balance entry
	RawAmount      string    // raw integer amount string from the balance entry
}
