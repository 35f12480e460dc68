// Package monitor runs the polling loop that turns on-chain activity into
// alerts: fetch recent signatures per wallet, classify new token
// acquisitions, claim each (token_name, mint) pair once, then dispatch.
package monitor

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-wallet-sentry/internal/classify"
	"solana-wallet-sentry/internal/domain"
	"solana-wallet-sentry/internal/notify"
	"solana-wallet-sentry/internal/observability"
	"solana-wallet-sentry/internal/solana"
	"solana-wallet-sentry/internal/storage"
)

const (
	// DefaultCheckInterval is the poll cadence.
	DefaultCheckInterval = 3 * time.Second

	// DefaultFetchLimit caps signatures fetched per wallet per cycle.
	DefaultFetchLimit = 20

	// DefaultRetention is how long dedup rows are kept.
	DefaultRetention = 7 * 24 * time.Hour

	// DefaultCleanupInterval is the cadence of the retention sweep.
	DefaultCleanupInterval = time.Hour

	// maxConcurrentWallets bounds the per-tick fan-out.
	maxConcurrentWallets = 8
)

// MetadataResolver assembles token metadata for a mint. Never fails.
type MetadataResolver interface {
	Resolve(ctx context.Context, mint string) domain.TokenMetadata
}

// AgeSource estimates a token's age when no DEX pairing age is known.
type AgeSource interface {
	TokenAge(ctx context.Context, mint string) (*time.Duration, error)
}

// Config tunes the poll loop.
type Config struct {
	CheckInterval   time.Duration
	FetchLimit      int
	Retention       time.Duration
	CleanupInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = DefaultFetchLimit
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
}

// Monitor drives the poll loop over the watchlist.
type Monitor struct {
	cfg        Config
	rpc        solana.RPCClient
	watchlist  *Watchlist
	store      storage.DedupStore
	resolver   MetadataResolver
	age        AgeSource
	dispatcher *notify.Dispatcher
	history    storage.AlertHistoryStore // optional
	metrics    *observability.Metrics    // optional
	logger     *log.Logger

	// nudge triggers an immediate pass over a single wallet, fed by the
	// websocket log subscription.
	nudge chan string

	startedAt time.Time
}

// New creates a Monitor. history and metrics may be nil.
func New(
	cfg Config,
	rpc solana.RPCClient,
	watchlist *Watchlist,
	store storage.DedupStore,
	resolver MetadataResolver,
	age AgeSource,
	dispatcher *notify.Dispatcher,
	history storage.AlertHistoryStore,
	metrics *observability.Metrics,
	logger *log.Logger,
) *Monitor {
	cfg.applyDefaults()
	return &Monitor{
		cfg:        cfg,
		rpc:        rpc,
		watchlist:  watchlist,
		store:      store,
		resolver:   resolver,
		age:        age,
		dispatcher: dispatcher,
		history:    history,
		metrics:    metrics,
		logger:     logger,
		nudge:      make(chan string, 64),
	}
}

// Nudge requests an immediate pass over one wallet, ahead of the next tick.
// Non-blocking: when the queue is full the regular tick covers it.
func (m *Monitor) Nudge(wallet string) {
	select {
	case m.nudge <- wallet:
	default:
	}
}

// Run blocks until ctx is canceled, polling all watched wallets on the
// configured interval and sweeping expired dedup rows.
func (m *Monitor) Run(ctx context.Context) error {
	m.startedAt = time.Now()
	m.logger.Printf("monitor: starting, interval=%s fetch_limit=%d retention=%s",
		m.cfg.CheckInterval, m.cfg.FetchLimit, m.cfg.Retention)

	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(m.cfg.CleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Printf("monitor: shutting down after %s", time.Since(m.startedAt).Round(time.Second))
			return ctx.Err()

		case <-ticker.C:
			m.pollAll(ctx)

		case wallet := <-m.nudge:
			if m.watchlist.Get(wallet) != nil {
				if err := m.pollWallet(ctx, wallet); err != nil {
					m.logger.Printf("monitor: nudged poll of %s failed: %v", wallet, err)
				}
			}

		case <-cleanup.C:
			m.runCleanup(ctx)
		}
	}
}

// pollAll processes every watched wallet concurrently. One wallet's error
// never aborts the others.
func (m *Monitor) pollAll(ctx context.Context) {
	wallets := m.watchlist.List()
	if m.metrics != nil {
		m.metrics.WalletsMonitored.Set(float64(len(wallets)))
	}
	if len(wallets) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWallets)

	for _, w := range wallets {
		wallet := w.Address
		g.Go(func() error {
			if err := m.pollWallet(gctx, wallet); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Printf("monitor: poll of %s failed: %v", wallet, err)
				if m.metrics != nil {
					m.metrics.WalletPollErrors.Inc()
				}
			}
			return nil
		})
	}
	g.Wait()
}

// pollWallet runs one detection pass over a single wallet.
func (m *Monitor) pollWallet(ctx context.Context, wallet string) error {
	sigs, err := m.rpc.GetSignaturesForAddress(ctx, wallet, &solana.SignaturesOpts{Limit: m.cfg.FetchLimit})
	if err != nil {
		return err
	}
	if m.metrics != nil {
		m.metrics.SignaturesFetched.Add(float64(len(sigs)))
	}

	// Results arrive newest first; walk oldest to newest so alerts come
	// out in chronological order.
	for i := len(sigs) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := m.processSignature(ctx, wallet, sigs[i]); err != nil {
			// Transient failure: leave the signature unrecorded so the
			// next cycle retries it.
			m.logger.Printf("monitor: signature %s deferred: %v", sigs[i].Signature, err)
		}
	}
	return nil
}

// processSignature classifies one transaction and alerts on its events.
// The signature is recorded once classification completed, whether or not
// any alert resulted. Fetch and storage errors leave it unrecorded.
func (m *Monitor) processSignature(ctx context.Context, wallet string, sig solana.SignatureInfo) error {
	seen, err := m.store.HasProcessedSignature(ctx, sig.Signature)
	if err != nil {
		return err
	}
	if seen {
		if m.metrics != nil {
			m.metrics.SignaturesSkipped.Inc()
		}
		return nil
	}

	tx, err := m.rpc.GetParsedTransaction(ctx, sig.Signature)
	if err != nil {
		return err
	}
	if tx != nil {
		events := classify.Classify(tx, wallet)
		if m.metrics != nil {
			m.metrics.TokenEventsFound.Add(float64(len(events)))
		}
		for _, event := range events {
			if err := m.handleEvent(ctx, event); err != nil {
				return err
			}
		}
	}

	return m.store.RecordSignature(ctx, sig.Signature)
}

// handleEvent resolves metadata, claims the dedup pair and dispatches.
func (m *Monitor) handleEvent(ctx context.Context, event domain.TokenEvent) error {
	meta := m.resolver.Resolve(ctx, event.Mint)

	claimed, err := m.store.TryClaimAlert(ctx, meta.DisplayName(), event.Mint, event.Wallet, event.Signature)
	if err != nil {
		return err
	}
	if !claimed {
		if m.metrics != nil {
			m.metrics.AlertsSuppressed.Inc()
		}
		return nil
	}

	alert := m.buildAlert(ctx, event, meta)
	m.dispatcher.Dispatch(ctx, alert)
	if m.metrics != nil {
		m.metrics.AlertsDispatched.Inc()
	}

	if m.history != nil {
		if err := m.history.Append(ctx, []*domain.Alert{alert}); err != nil {
			m.logger.Printf("monitor: alert history append failed: %v", err)
		}
	}
	return nil
}

// buildAlert assembles the channel payload from the event and metadata.
func (m *Monitor) buildAlert(ctx context.Context, event domain.TokenEvent, meta domain.TokenMetadata) *domain.Alert {
	age := meta.PairedAge
	if age == nil && m.age != nil {
		if estimated, err := m.age.TokenAge(ctx, event.Mint); err == nil {
			age = estimated
		}
	}

	var chatID int64
	if watch := m.watchlist.Get(event.Wallet); watch != nil {
		chatID = watch.ChatID
	}

	decimals := event.Decimals
	if meta.Decimals != nil {
		decimals = *meta.Decimals
	}

	return &domain.Alert{
		TokenName:   meta.DisplayName(),
		Symbol:      meta.DisplaySymbol(),
		Mint:        event.Mint,
		Amount:      event.InferredAmount,
		Decimals:    decimals,
		Age:         age,
		Signature:   event.Signature,
		PriceUSD:    meta.PriceUSD,
		Dex:         meta.Dex,
		Wallet:      event.Wallet,
		ChatID:      chatID,
		DetectedAt:  event.DetectedAt,
		ActionLinks: notify.DefaultActionLinks(event.Mint),
	}
}

// runCleanup sweeps expired dedup rows and logs store statistics.
func (m *Monitor) runCleanup(ctx context.Context) {
	removed, err := m.store.Cleanup(ctx, m.cfg.Retention)
	if err != nil {
		m.logger.Printf("monitor: cleanup failed: %v", err)
		return
	}
	if m.metrics != nil {
		m.metrics.CleanupDeletions.Add(float64(removed))
		m.metrics.UptimeSeconds.Set(time.Since(m.startedAt).Seconds())
	}

	st, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Printf("monitor: stats failed: %v", err)
		return
	}
	m.logger.Printf("monitor: cleanup removed %d rows, %d alerts and %d signatures retained, uptime %s",
		removed, st.TotalAlerts, st.TotalSignatures, time.Since(m.startedAt).Round(time.Second))
}
