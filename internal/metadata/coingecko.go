package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"solana-wallet-sentry/internal/domain"
)

const coinGeckoBaseURL = "https://api.coingecko.com"

// CoinGeckoProvider queries the CoinGecko contract lookup. Only established
// tokens are listed, so this sits late in the chain.
type CoinGeckoProvider struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoProvider creates a CoinGecko metadata provider.
func NewCoinGeckoProvider(client *http.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{baseURL: coinGeckoBaseURL, client: client}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

type coinGeckoResponse struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	MarketData struct {
		CurrentPrice struct {
			USD *float64 `json:"usd"`
		} `json:"current_price"`
	} `json:"market_data"`
}

// Fetch returns name, uppercased symbol and USD price for listed tokens.
func (p *CoinGeckoProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var resp coinGeckoResponse
	url := fmt.Sprintf("%s/api/v3/coins/solana/contract/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Name == "" && resp.Symbol == "" {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint, PriceUSD: resp.MarketData.CurrentPrice.USD}
	if resp.Name != "" {
		meta.Name = strPtr(resp.Name)
	}
	if resp.Symbol != "" {
		// CoinGecko reports symbols lowercased.
		meta.Symbol = strPtr(strings.ToUpper(resp.Symbol))
	}
	return meta, nil
}

var _ Provider = (*CoinGeckoProvider)(nil)
