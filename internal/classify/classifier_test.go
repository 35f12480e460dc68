package classify

import (
	"testing"

	"solana-wallet-sentry/internal/solana"
)

const (
	wallet = "WalletAAA111111111111111111111111111111111"
	other  = "WalletBBB222222222222222222222222222222222"
)

func ataCreate(owner, mint string) solana.ParsedInstruction {
	return solana.ParsedInstruction{
		Program:   "spl-associated-token-account",
		ProgramID: solana.AssociatedTokenProgram,
		Parsed: &solana.InstructionInfo{
			Type: "create",
			Info: solana.InstructionArgs{Account: "ata-" + mint, Mint: mint, Wallet: owner},
		},
	}
}

func tokenInit(owner, mint string) solana.ParsedInstruction {
	return solana.ParsedInstruction{
		Program:   "spl-token",
		ProgramID: solana.TokenProgram,
		Parsed: &solana.InstructionInfo{
			Type: "initializeAccount3",
			Info: solana.InstructionArgs{Account: "acc-" + mint, Mint: mint, Owner: owner},
		},
	}
}

func balance(owner, mint string, ui float64, decimals int, raw string) solana.TokenBalance {
	return solana.TokenBalance{
		Mint:  mint,
		Owner: owner,
		UIAmount: solana.UITokenAmount{
			Amount:   raw,
			Decimals: decimals,
			UIAmount: &ui,
		},
	}
}

func TestClassify_NewTokenAcquisition(t *testing.T) {
	tx := &solana.ParsedTransaction{
		Signature:    "sig1",
		BlockTime:    1700000000,
		Instructions: []solana.ParsedInstruction{ataCreate(wallet, "MintAAA")},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 1000, 6, "1000000000"),
		},
	}

	events := Classify(tx, wallet)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.Mint != "MintAAA" {
		t.Errorf("mint = %s, want MintAAA", ev.Mint)
	}
	if ev.InferredAmount != 1000 {
		t.Errorf("amount = %f, want 1000", ev.InferredAmount)
	}
	if ev.Signature != "sig1" {
		t.Errorf("signature = %s, want sig1", ev.Signature)
	}
	if ev.Decimals != 6 {
		t.Errorf("decimals = %d, want 6", ev.Decimals)
	}
}

func TestClassify_OneEventPerDistinctMint(t *testing.T) {
	tx := &solana.ParsedTransaction{
		Signature: "sig2",
		Instructions: []solana.ParsedInstruction{
			ataCreate(wallet, "MintAAA"),
			tokenInit(wallet, "MintBBB"),
			// Duplicate declaration for MintAAA must not double-emit.
			tokenInit(wallet, "MintAAA"),
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 5, 9, "5000000000"),
			balance(wallet, "MintBBB", 7, 9, "7000000000"),
		},
	}

	events := Classify(tx, wallet)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Mint != "MintAAA" || events[1].Mint != "MintBBB" {
		t.Errorf("unexpected mints: %s, %s", events[0].Mint, events[1].Mint)
	}
}

func TestClassify_ExistingAccountFirstBalance(t *testing.T) {
	// Account already existed with zero balance: createIdempotent plus a
	// positive delta still qualifies.
	tx := &solana.ParsedTransaction{
		Signature: "sig3",
		Instructions: []solana.ParsedInstruction{
			{
				Program:   "spl-associated-token-account",
				ProgramID: solana.AssociatedTokenProgram,
				Parsed: &solana.InstructionInfo{
					Type: "createIdempotent",
					Info: solana.InstructionArgs{Mint: "MintAAA", Wallet: wallet},
				},
			},
		},
		PreTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 0, 6, "0"),
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 250, 6, "250000000"),
		},
	}

	events := Classify(tx, wallet)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].InferredAmount != 250 {
		t.Errorf("amount = %f, want 250", events[0].InferredAmount)
	}
}

func TestClassify_NoPositiveDelta(t *testing.T) {
	// Account initialized but balance unchanged: not an acquisition.
	tx := &solana.ParsedTransaction{
		Signature:    "sig4",
		Instructions: []solana.ParsedInstruction{tokenInit(wallet, "MintAAA")},
		PreTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 100, 6, "100000000"),
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 100, 6, "100000000"),
		},
	}

	if events := Classify(tx, wallet); events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClassify_IgnoresNonSPLPrograms(t *testing.T) {
	// No SPL-token-program instructions: never a TokenEvent regardless of
	// balance fields.
	tx := &solana.ParsedTransaction{
		Signature: "sig5",
		Instructions: []solana.ParsedInstruction{
			{
				Program:   "system",
				ProgramID: "11111111111111111111111111111111",
				Parsed: &solana.InstructionInfo{
					Type: "createAccount",
					Info: solana.InstructionArgs{Owner: wallet, Mint: "MintAAA"},
				},
			},
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 999, 6, "999000000"),
		},
	}

	if events := Classify(tx, wallet); events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClassify_IgnoresOtherWallets(t *testing.T) {
	tx := &solana.ParsedTransaction{
		Signature:    "sig6",
		Instructions: []solana.ParsedInstruction{ataCreate(other, "MintAAA")},
		PostTokenBalances: []solana.TokenBalance{
			balance(other, "MintAAA", 1000, 6, "1000000000"),
		},
	}

	if events := Classify(tx, wallet); events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClassify_InnerInstructionsQualify(t *testing.T) {
	// Swap programs typically create the ATA via an inner instruction.
	tx := &solana.ParsedTransaction{
		Signature:         "sig7",
		InnerInstructions: []solana.ParsedInstruction{tokenInit(wallet, "MintCCC")},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintCCC", 42, 9, "42000000000"),
		},
	}

	events := Classify(tx, wallet)
	if len(events) != 1 || events[0].Mint != "MintCCC" {
		t.Fatalf("expected 1 event for MintCCC, got %+v", events)
	}
}

func TestClassify_FailedTransaction(t *testing.T) {
	tx := &solana.ParsedTransaction{
		Signature:    "sig8",
		Err:          map[string]interface{}{"InstructionError": []interface{}{}},
		Instructions: []solana.ParsedInstruction{ataCreate(wallet, "MintAAA")},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 1000, 6, "1000000000"),
		},
	}

	if events := Classify(tx, wallet); events != nil {
		t.Errorf("expected no events for failed tx, got %d", len(events))
	}
}

func TestClassify_MalformedInstructionSkipped(t *testing.T) {
	// Missing mint field: instruction shape is unusable, skip it.
	tx := &solana.ParsedTransaction{
		Signature: "sig9",
		Instructions: []solana.ParsedInstruction{
			{
				Program:   "spl-token",
				ProgramID: solana.TokenProgram,
				Parsed: &solana.InstructionInfo{
					Type: "initializeAccount",
					Info: solana.InstructionArgs{Owner: wallet},
				},
			},
			{Program: "spl-token", ProgramID: solana.TokenProgram}, // undecoded
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 10, 6, "10000000"),
		},
	}

	if events := Classify(tx, wallet); events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClassify_MultipleAccountsSameMintSummed(t *testing.T) {
	tx := &solana.ParsedTransaction{
		Signature:    "sig10",
		Instructions: []solana.ParsedInstruction{tokenInit(wallet, "MintAAA")},
		PreTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 10, 6, "10000000"),
		},
		PostTokenBalances: []solana.TokenBalance{
			balance(wallet, "MintAAA", 10, 6, "10000000"),
			balance(wallet, "MintAAA", 30, 6, "30000000"),
		},
	}

	events := Classify(tx, wallet)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].InferredAmount != 30 {
		t.Errorf("amount = %f, want 30", events[0].InferredAmount)
	}
}
