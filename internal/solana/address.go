package solana

import "github.com/mr-tron/base58"

// IsValidAddress reports whether s is a plausible Solana address:
// base58-decodable to exactly 32 bytes.
func IsValidAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}
