package solana

import "context"

// Well-known program IDs.
const (
	TokenProgram           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgram = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetadataProgram        = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// RPCClient defines the Solana RPC surface the monitor depends on.
type RPCClient interface {
	// GetSignaturesForAddress retrieves signatures for an address, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetParsedTransaction retrieves a transaction with jsonParsed encoding.
	GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error)

	// GetAccountInfo retrieves account info by public key.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetBlockTime retrieves the estimated production time of a block.
	// A nil result means the node has no timestamp for the slot.
	GetBlockTime(ctx context.Context, slot int64) (*int64, error)
}

// Compile-time interface check.
var _ RPCClient = (*HTTPClient)(nil)
