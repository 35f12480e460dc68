package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/solana"
)

// MetaplexProvider reads name and symbol from the on-chain Metaplex token
// metadata account. It is the last resort: slower than the HTTP indexers
// but works for any token with metadata, no matter how new.
type MetaplexProvider struct {
	rpc solana.RPCClient
}

// NewMetaplexProvider creates an on-chain metadata provider.
func NewMetaplexProvider(rpc solana.RPCClient) *MetaplexProvider {
	return &MetaplexProvider{rpc: rpc}
}

func (p *MetaplexProvider) Name() string { return "metaplex" }

// Fetch derives the metadata PDA for the mint and parses the account.
func (p *MetaplexProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	pda := DeriveMetadataPDA(mint)
	if pda == "" {
		return nil, fmt.Errorf("derive metadata pda for %s", mint)
	}

	info, err := p.rpc.GetAccountInfo(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("get metadata account: %w", err)
	}
	if info == nil {
		return nil, nil // no metadata account for this mint
	}

	name, symbol, ok := parseMetaplexAccount(info.Data)
	if !ok {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint}
	if name != "" {
		meta.Name = strPtr(name)
	}
	if symbol != "" {
		meta.Symbol = strPtr(symbol)
	}
	if meta.Name == nil && meta.Symbol == nil {
		return nil, nil
	}
	return meta, nil
}

// DeriveMetadataPDA derives the Metaplex metadata PDA for a mint.
// Seeds: ["metadata", metadata_program_id, mint].
func DeriveMetadataPDA(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return ""
	}
	programBytes, err := base58.Decode(solana.MetadataProgram)
	if err != nil {
		return ""
	}
	if len(mintBytes) != 32 || len(programBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}
	return derivePDA(seeds, programBytes)
}

// derivePDA derives a Program Derived Address using the Solana algorithm:
// sha256(seeds || bump || programID || "ProgramDerivedAddress"), taking the
// highest bump whose hash falls off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// parseMetaplexAccount parses a base64-encoded Metaplex metadata account.
// Layout:
//   - key: u8 (4 = MetadataV1)
//   - updateAuthority: Pubkey (32 bytes)
//   - mint: Pubkey (32 bytes)
//   - name: borsh String (4-byte length + data, NUL padded)
//   - symbol: borsh String
func parseMetaplexAccount(data string) (name, symbol string, ok bool) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", "", false
	}

	if len(decoded) < 100 {
		return "", "", false
	}
	if decoded[0] != 4 { // MetadataV1 key
		return "", "", false
	}

	// Skip: key(1) + updateAuthority(32) + mint(32) = 65 bytes
	offset := 65

	if offset+4 > len(decoded) {
		return "", "", false
	}
	nameLen := binary.LittleEndian.Uint32(decoded[offset:])
	offset += 4
	if nameLen > 100 || offset+int(nameLen) > len(decoded) {
		return "", "", false
	}
	name = strings.TrimRight(string(decoded[offset:offset+int(nameLen)]), "\x00")
	offset += int(nameLen)

	if offset+4 > len(decoded) {
		return name, "", true
	}
	symbolLen := binary.LittleEndian.Uint32(decoded[offset:])
	offset += 4
	if symbolLen > 20 || offset+int(symbolLen) > len(decoded) {
		return name, "", true
	}
	symbol = strings.TrimRight(string(decoded[offset:offset+int(symbolLen)]), "\x00")

	return name, symbol, true
}

var _ Provider = (*MetaplexProvider)(nil)
