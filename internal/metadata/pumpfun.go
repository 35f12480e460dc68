package metadata

import (
	"context"
	"fmt"
	"net/http"

	"solana-wallet-sentry/internal/domain"
)

const pumpFunBaseURL = "https://frontend-api.pump.fun"

// PumpFunProvider queries the pump.fun frontend API. Most fresh meme coins
// appear here before any DEX indexer picks them up.
type PumpFunProvider struct {
	baseURL string
	client  *http.Client
}

// NewPumpFunProvider creates a pump.fun metadata provider.
func NewPumpFunProvider(client *http.Client) *PumpFunProvider {
	return &PumpFunProvider{baseURL: pumpFunBaseURL, client: client}
}

func (p *PumpFunProvider) Name() string { return "pumpfun" }

type pumpFunCoin struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Fetch returns name and symbol for tokens launched on pump.fun.
func (p *PumpFunProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var coin pumpFunCoin
	url := fmt.Sprintf("%s/coins/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, nil, &coin); err != nil {
		return nil, err
	}

	if coin.Name == "" && coin.Symbol == "" {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint}
	if coin.Name != "" {
		meta.Name = strPtr(coin.Name)
	}
	if coin.Symbol != "" {
		meta.Symbol = strPtr(coin.Symbol)
	}
	return meta, nil
}

var _ Provider = (*PumpFunProvider)(nil)
