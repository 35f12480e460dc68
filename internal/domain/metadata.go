package domain

import "time"

// TokenMetadata is the merged view of a token assembled from metadata
// providers. Fields are pointers so the resolver can distinguish "not yet
// populated" from zero values when merging partial provider responses.
type TokenMetadata struct {
	Mint      string
	Name      *string
	Symbol    *string
	Decimals  *int
	PriceUSD  *float64
	PairedAge *time.Duration // time since first DEX pair listing
	Dex       *string        // DEX identifier the token trades on
}

// Complete reports whether every target field has been populated.
// Decimals is informational and does not gate early termination.
func (m *TokenMetadata) Complete() bool {
	return m.Name != nil && m.Symbol != nil && m.PriceUSD != nil &&
		m.PairedAge != nil && m.Dex != nil
}

// Merge copies fields from other into m, first writer wins per field.
func (m *TokenMetadata) Merge(other *TokenMetadata) {
	if other == nil {
		return
	}
	if m.Name == nil {
		m.Name = other.Name
	}
	if m.Symbol == nil {
		m.Symbol = other.Symbol
	}
	if m.Decimals == nil {
		m.Decimals = other.Decimals
	}
	if m.PriceUSD == nil {
		m.PriceUSD = other.PriceUSD
	}
	if m.PairedAge == nil {
		m.PairedAge = other.PairedAge
	}
	if m.Dex == nil {
		m.Dex = other.Dex
	}
}

// DisplayName returns the token name, or the placeholder for unresolved tokens.
func (m *TokenMetadata) DisplayName() string {
	if m.Name != nil {
		return *m.Name
	}
	return "Unknown"
}

// DisplaySymbol returns the token symbol, or the placeholder.
func (m *TokenMetadata) DisplaySymbol() string {
	if m.Symbol != nil {
		return *m.Symbol
	}
	return "UNKNOWN"
}
