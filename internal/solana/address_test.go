package solana

import "testing"

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"token program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", true},
		{"wsol mint", "So11111111111111111111111111111111111111112", true},
		{"typical wallet", "gasTzr94Pmp4Gf8vknQnqxeYxdgwFjbgdJa4msYRpnB", true},
		{"empty", "", false},
		{"too short", "abc123", false},
		{"invalid base58 chars", "0OIl+/=================================", false},
		{"valid base58 wrong length", "3yZe7d", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.input); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
