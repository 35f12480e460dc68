package metadata

import (
	"context"
	"fmt"
	"net/http"

	"solana-wallet-sentry/internal/domain"
)

const jupiterBaseURL = "https://quote-api.jup.ag"

// JupiterProvider queries the Jupiter token registry.
type JupiterProvider struct {
	baseURL string
	client  *http.Client
}

// NewJupiterProvider creates a Jupiter metadata provider.
func NewJupiterProvider(client *http.Client) *JupiterProvider {
	return &JupiterProvider{baseURL: jupiterBaseURL, client: client}
}

func (p *JupiterProvider) Name() string { return "jupiter" }

type jupiterToken struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
}

// Fetch returns name, symbol and decimals for registry-listed tokens.
func (p *JupiterProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var token jupiterToken
	url := fmt.Sprintf("%s/v6/tokens/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, nil, &token); err != nil {
		return nil, err
	}

	if token.Name == "" && token.Symbol == "" && token.Decimals == nil {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint, Decimals: token.Decimals}
	if token.Name != "" {
		meta.Name = strPtr(token.Name)
	}
	if token.Symbol != "" {
		meta.Symbol = strPtr(token.Symbol)
	}
	return meta, nil
}

var _ Provider = (*JupiterProvider)(nil)
