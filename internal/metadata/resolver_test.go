package metadata

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"solana-wallet-sentry/internal/domain"
)

type stubProvider struct {
	name   string
	meta   *domain.TokenMetadata
	err    error
	called int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(_ context.Context, mint string) (*domain.TokenMetadata, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	return s.meta, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func TestResolver_FirstWriterWins(t *testing.T) {
	age := time.Hour
	first := &stubProvider{name: "first", meta: &domain.TokenMetadata{
		Name:   strPtr("Alpha"),
		Symbol: strPtr("ALPHA"),
	}}
	second := &stubProvider{name: "second", meta: &domain.TokenMetadata{
		Name:      strPtr("Beta"), // must not override first
		PriceUSD:  ptr(0.5),
		PairedAge: &age,
		Dex:       strPtr("raydium"),
	}}

	r := NewResolver([]Provider{first, second}, testLogger())
	meta := r.Resolve(context.Background(), "mint1")

	if meta.DisplayName() != "Alpha" {
		t.Errorf("Name: got %q, want Alpha", meta.DisplayName())
	}
	if meta.PriceUSD == nil || *meta.PriceUSD != 0.5 {
		t.Errorf("PriceUSD not merged from second provider: %v", meta.PriceUSD)
	}
	if meta.Dex == nil || *meta.Dex != "raydium" {
		t.Errorf("Dex not merged: %v", meta.Dex)
	}
}

func TestResolver_EarlyStopWhenComplete(t *testing.T) {
	age := time.Hour
	complete := &stubProvider{name: "complete", meta: &domain.TokenMetadata{
		Name:      strPtr("Alpha"),
		Symbol:    strPtr("ALPHA"),
		PriceUSD:  ptr(1.0),
		PairedAge: &age,
		Dex:       strPtr("orca"),
	}}
	tail := &stubProvider{name: "tail", meta: &domain.TokenMetadata{Name: strPtr("never")}}

	r := NewResolver([]Provider{complete, tail}, testLogger())
	r.Resolve(context.Background(), "mint1")

	if tail.called != 0 {
		t.Errorf("Expected tail provider not to be called, got %d calls", tail.called)
	}
}

func TestResolver_SkipsFailingProviders(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("rate limited")}
	empty := &stubProvider{name: "empty"}
	working := &stubProvider{name: "working", meta: &domain.TokenMetadata{
		Name:   strPtr("Gamma"),
		Symbol: strPtr("GAMMA"),
	}}

	r := NewResolver([]Provider{failing, empty, working}, testLogger())
	meta := r.Resolve(context.Background(), "mint1")

	if meta.DisplayName() != "Gamma" {
		t.Errorf("Expected fallthrough to working provider, got %q", meta.DisplayName())
	}
}

func TestResolver_DegradesToUnknown(t *testing.T) {
	r := NewResolver([]Provider{
		&stubProvider{name: "a", err: errors.New("down")},
		&stubProvider{name: "b"},
	}, testLogger())

	meta := r.Resolve(context.Background(), "mint1")

	if meta.DisplayName() != "Unknown" {
		t.Errorf("DisplayName: got %q, want Unknown", meta.DisplayName())
	}
	if meta.DisplaySymbol() != "UNKNOWN" {
		t.Errorf("DisplaySymbol: got %q, want UNKNOWN", meta.DisplaySymbol())
	}
	if meta.Mint != "mint1" {
		t.Errorf("Mint: got %q, want mint1", meta.Mint)
	}
}

func TestResolver_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tail := &stubProvider{name: "tail", meta: &domain.TokenMetadata{Name: strPtr("x")}}
	r := NewResolver([]Provider{tail}, testLogger())
	meta := r.Resolve(ctx, "mint1")

	if tail.called != 0 {
		t.Errorf("Expected no provider calls after cancellation, got %d", tail.called)
	}
	if meta.DisplayName() != "Unknown" {
		t.Errorf("Expected degraded result, got %q", meta.DisplayName())
	}
}

func ptr[T any](v T) *T { return &v }
