// Package classify decides whether a transaction represents a wallet
// acquiring an SPL token it did not previously hold. It is purely
// derivational: no I/O, no persistence.
package classify

import (
	"time"

	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/solana"
)

// Instruction types that create or initialize a token account.
var splTokenInitTypes = map[string]bool{
	"initializeAccount":  true,
	"initializeAccount2": true,
	"initializeAccount3": true,
}

var ataCreateTypes = map[string]bool{
	"create":           true,
	"createIdempotent": true,
}

// Classify inspects a parsed transaction and returns one TokenEvent per
// distinct mint the wallet newly acquired. A mint qualifies when the
// transaction carries a token-account creation or initialization
// instruction for an account owned by the wallet AND the wallet's post
// token balance for that mint exceeds its pre balance. Instructions from
// unrelated programs are ignored; malformed instruction shapes are skipped.
func Classify(tx *solana.ParsedTransaction, wallet string) []domain.TokenEvent {
	if tx == nil || tx.Failed() {
		return nil
	}

	// Candidate mints declared by qualifying instructions, in first-seen
	// order for deterministic output.
	var mints []string
	seen := make(map[string]bool)
	addMint := func(mint string) {
		if mint == "" || seen[mint] {
			return
		}
		seen[mint] = true
		mints = append(mints, mint)
	}

	scan := func(instructions []solana.ParsedInstruction) {
		for _, in := range instructions {
			if in.Parsed == nil {
				continue
			}
			switch in.Program {
			case "spl-token":
				if splTokenInitTypes[in.Parsed.Type] && in.Parsed.Info.Owner == wallet {
					addMint(in.Parsed.Info.Mint)
				}
			case "spl-associated-token-account":
				if ataCreateTypes[in.Parsed.Type] &&
					(in.Parsed.Info.Wallet == wallet || in.Parsed.Info.Owner == wallet) {
					addMint(in.Parsed.Info.Mint)
				}
			}
		}
	}
	scan(tx.Instructions)
	scan(tx.InnerInstructions)

	if len(mints) == 0 {
		return nil
	}

	deltas := balanceDeltas(tx, wallet)

	now := time.Now().UTC()
	var events []domain.TokenEvent
	for _, mint := range mints {
		d, ok := deltas[mint]
		if !ok || d.uiDelta <= 0 {
			continue
		}
		events = append(events, domain.TokenEvent{
			Mint:           mint,
			Wallet:         wallet,
			Signature:      tx.Signature,
			DetectedAt:     now,
			BlockTime:      tx.BlockTime,
			InferredAmount: d.uiDelta,
			Decimals:       d.decimals,
			RawAmount:      d.rawPost,
		})
	}

	return events
}

type delta struct {
	uiDelta  float64
	decimals int
	rawPost  string
}

// balanceDeltas computes the wallet's per-mint uiAmount change. Multiple
// accounts for the same mint are summed.
func balanceDeltas(tx *solana.ParsedTransaction, wallet string) map[string]delta {
	pre := make(map[string]float64)
	for _, b := range tx.PreTokenBalances {
		if b.Owner != wallet {
			continue
		}
		pre[b.Mint] += uiAmount(b)
	}

	deltas := make(map[string]delta)
	for _, b := range tx.PostTokenBalances {
		if b.Owner != wallet {
			continue
		}
		d := deltas[b.Mint]
		d.uiDelta += uiAmount(b)
		d.decimals = b.UIAmount.Decimals
		d.rawPost = b.UIAmount.Amount
		deltas[b.Mint] = d
	}
	for mint, amount := range pre {
		d := deltas[mint]
		d.uiDelta -= amount
		deltas[mint] = d
	}

	return deltas
}

func uiAmount(b solana.TokenBalance) float64 {
	if b.UIAmount.UIAmount != nil {
		return *b.UIAmount.UIAmount
	}
	return 0
}
