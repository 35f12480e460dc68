package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solana-wallet-sentry/internal/domain"
)

// DefaultProviderTimeout bounds a single provider request.
const DefaultProviderTimeout = 10 * time.Second

// Provider fetches partial token metadata from a single upstream source.
// A provider returns what it knows and nil for fields it cannot supply.
// Failures are independent: one provider erroring never affects the rest.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Fetch returns partial metadata for the mint. A nil result with a nil
	// error means the provider does not know the token.
	Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}

// fetchJSON issues a GET request and decodes the JSON response into v.
// Non-2xx statuses are returned as errors so the resolver can move on to
// the next provider.
func fetchJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
