package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solana-wallet-sentry/internal/domain"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerProvider queries the DexScreener pair index. It is the only
// provider that supplies price, DEX identifier and pairing age in one call.
type DexScreenerProvider struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewDexScreenerProvider creates a DexScreener metadata provider.
func NewDexScreenerProvider(client *http.Client) *DexScreenerProvider {
	return &DexScreenerProvider{baseURL: dexScreenerBaseURL, client: client, now: time.Now}
}

func (p *DexScreenerProvider) Name() string { return "dexscreener" }

type dexScreenerResponse struct {
	Pairs []struct {
		DexID     string `json:"dexId"`
		PriceUSD  string `json:"priceUsd"`
		BaseToken struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"baseToken"`
		PairCreatedAt int64 `json:"pairCreatedAt"` // unix milliseconds
	} `json:"pairs"`
}

// Fetch reads the first listed pair for the mint.
func (p *DexScreenerProvider) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var resp dexScreenerResponse
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Pairs) == 0 {
		return nil, nil
	}
	pair := resp.Pairs[0]

	meta := &domain.TokenMetadata{Mint: mint}
	if pair.BaseToken.Name != "" {
		meta.Name = strPtr(pair.BaseToken.Name)
	}
	if pair.BaseToken.Symbol != "" {
		meta.Symbol = strPtr(pair.BaseToken.Symbol)
	}
	if pair.DexID != "" {
		meta.Dex = strPtr(pair.DexID)
	}
	if price, err := strconv.ParseFloat(pair.PriceUSD, 64); err == nil {
		meta.PriceUSD = &price
	}
	if pair.PairCreatedAt > 0 {
		created := time.UnixMilli(pair.PairCreatedAt)
		age := p.now().Sub(created)
		if age > 0 {
			meta.PairedAge = &age
		}
	}
	return meta, nil
}

var _ Provider = (*DexScreenerProvider)(nil)
