package metadata

import (
	"context"
	"log"
	"time"

	"solana-wallet-sentry/internal/domain"
)

// Resolver queries providers in a fixed priority order and merges their
// partial results, first writer wins per field. Resolve never fails: when
// every provider comes back empty the result degrades to the Unknown
// placeholders at presentation time.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	logger    *log.Logger
	onLookup  func(provider, outcome string)
}

// Lookup outcomes reported to the hook registered with WithLookupHook.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithProviderTimeout sets the per-provider timeout.
func WithProviderTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLookupHook registers a hook invoked once per provider query with the
// provider name and the lookup outcome.
func WithLookupHook(fn func(provider, outcome string)) ResolverOption {
	return func(r *Resolver) {
		r.onLookup = fn
	}
}

// NewResolver creates a resolver over the given providers. Order is the
// query priority: earlier providers win contested fields.
func NewResolver(providers []Provider, logger *log.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		providers: providers,
		timeout:   DefaultProviderTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve assembles metadata for mint. Providers are consulted until the
// merged view is complete or the list is exhausted. Provider errors are
// logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, mint string) domain.TokenMetadata {
	merged := domain.TokenMetadata{Mint: mint}

	for _, p := range r.providers {
		if ctx.Err() != nil {
			break
		}

		pctx, cancel := context.WithTimeout(ctx, r.timeout)
		partial, err := p.Fetch(pctx, mint)
		cancel()

		if err != nil {
			r.report(p.Name(), LookupError)
			r.logger.Printf("metadata: provider %s failed for %s: %v", p.Name(), mint, err)
			continue
		}
		if partial == nil {
			r.report(p.Name(), LookupMiss)
			continue
		}
		r.report(p.Name(), LookupHit)

		merged.Merge(partial)
		if merged.Complete() {
			break
		}
	}

	return merged
}

func (r *Resolver) report(provider, outcome string) {
	if r.onLookup != nil {
		r.onLookup(provider, outcome)
	}
}
