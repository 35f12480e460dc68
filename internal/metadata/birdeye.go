package metadata

import (
	"context"
	"fmt"
	"net/http"

	"solana-wallet-sentry/internal/domain"
)

const birdeyeBaseURL = "https://public-api.birdeye.so"

// BirdeyeProvider queries the Birdeye public token endpoint. An API key is
// optional; without one the public rate limit applies.
type BirdeyeProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewBirdeyeProvider creates a Birdeye metadata provider.
func NewBirdeyeProvider(client *http.Client, apiKey string) *BirdeyeProvider {
	return &BirdeyeProvider{baseURL: birdeyeBaseURL, apiKey: apiKey, client: client}
}

func (p *BirdeyeProvider) Name() string { return "birdeye" }

type birdeyeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Name     string   `json:"name"`
		Symbol   string   `json:"symbol"`
		Decimals *int     `json:"decimals"`
		Price    *float64 `json:"price"`
	} `json:"data"`
}

// Fetch returns token info, including price when Birdeye tracks it.
func (p *BirdeyeProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var headers map[string]string
	if p.apiKey != "" {
		headers = map[string]string{"X-API-KEY": p.apiKey}
	}

	var resp birdeyeResponse
	url := fmt.Sprintf("%s/public/v1/token/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, headers, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, nil
	}

	meta := &domain.TokenMetadata{
		Mint:     mint,
		Decimals: resp.Data.Decimals,
		PriceUSD: resp.Data.Price,
	}
	if resp.Data.Name != "" {
		meta.Name = strPtr(resp.Data.Name)
	}
	if resp.Data.Symbol != "" {
		meta.Symbol = strPtr(resp.Data.Symbol)
	}
	return meta, nil
}

var _ Provider = (*BirdeyeProvider)(nil)
