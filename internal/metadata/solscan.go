package metadata

import (
	"context"
	"fmt"
	"net/http"

	"solana-wallet-sentry/internal/domain"
)

const solscanBaseURL = "https://public-api.solscan.io"

// SolscanProvider queries the public Solscan token metadata endpoint.
type SolscanProvider struct {
	baseURL string
	client  *http.Client
}

// NewSolscanProvider creates a Solscan metadata provider.
func NewSolscanProvider(client *http.Client) *SolscanProvider {
	return &SolscanProvider{baseURL: solscanBaseURL, client: client}
}

func (p *SolscanProvider) Name() string { return "solscan" }

type solscanResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Decimals *int   `json:"decimals"`
	} `json:"data"`
}

// Fetch unwraps the Solscan success envelope.
func (p *SolscanProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var resp solscanResponse
	url := fmt.Sprintf("%s/token/meta?tokenAddress=%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint, Decimals: resp.Data.Decimals}
	if resp.Data.Name != "" {
		meta.Name = strPtr(resp.Data.Name)
	}
	if resp.Data.Symbol != "" {
		meta.Symbol = strPtr(resp.Data.Symbol)
	}
	if meta.Name == nil && meta.Symbol == nil && meta.Decimals == nil {
		return nil, nil
	}
	return meta, nil
}

var _ Provider = (*SolscanProvider)(nil)
