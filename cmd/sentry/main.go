package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-wallet-sentry/internal/config"
	"solana-wallet-sentry/internal/metadata"
	"solana-wallet-sentry/internal/monitor"
	"solana-wallet-sentry/internal/notify"
	"solana-wallet-sentry/internal/observability"
	"solana-wallet-sentry/internal/solana"
	"solana-wallet-sentry/internal/storage"
	"solana-wallet-sentry/internal/storage/clickhouse"
	"solana-wallet-sentry/internal/storage/memory"
	"solana-wallet-sentry/internal/storage/migrations"
	pgstore "solana-wallet-sentry/internal/storage/postgres"
	"solana-wallet-sentry/internal/storage/sqlite"
	"solana-wallet-sentry/internal/telegram"
)

func main() {
	logger := log.New(os.Stdout, "[sentry] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, cfg, logger)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}
	logger.Println("Shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	metrics := observability.NewMetrics("")

	// Metrics and health server
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Dedup store
	store, err := openDedupStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Optional alert history sink
	var history storage.AlertHistoryStore
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		defer conn.Close()
		history = clickhouse.NewAlertHistoryStore(conn)
		logger.Println("Alert history enabled (clickhouse)")
	}

	// Chain access
	rpc := solana.NewHTTPClient(cfg.RPCURL, solana.WithCallObserver(func(method string, d time.Duration) {
		metrics.RPCCallLatency.WithLabelValues(method).Observe(d.Seconds())
	}))

	// Watchlist, optionally seeded from the environment
	watchlist := monitor.NewWatchlist()
	if cfg.SeedWallet != "" {
		if err := watchlist.Add(cfg.SeedWallet, cfg.TelegramChatID); err != nil {
			return fmt.Errorf("seed wallet: %w", err)
		}
		logger.Printf("Seeded watchlist with %s", cfg.SeedWallet)
	}

	// Telegram command bot, created first so alerting can share its session
	var bot *telegram.Bot
	if cfg.TelegramToken != "" {
		bot, err = telegram.NewBot(cfg.TelegramToken, watchlist, store, logger)
		if err != nil {
			return err
		}
	}

	// Notification channels
	channels := buildChannels(cfg, bot, logger)
	dispatcher := notify.NewDispatcher(channels, logger)
	dispatcher.OnFailure(func(channel string) {
		metrics.ChannelFailures.WithLabelValues(channel).Inc()
	})
	logger.Printf("Notification channels configured: %d", dispatcher.Channels())

	// Metadata provider chain, cheapest and most specific first
	httpClient := &http.Client{Timeout: metadata.DefaultProviderTimeout}
	providers := []metadata.Provider{
		metadata.NewPumpFunProvider(httpClient),
		metadata.NewDexScreenerProvider(httpClient),
		metadata.NewJupiterProvider(httpClient),
		metadata.NewSolscanProvider(httpClient),
		metadata.NewBirdeyeProvider(httpClient, cfg.BirdeyeAPIKey),
		metadata.NewCoinGeckoProvider(httpClient),
		metadata.NewMetaplexProvider(rpc),
	}
	resolver := metadata.NewResolver(providers, logger, metadata.WithLookupHook(func(provider, outcome string) {
		metrics.ProviderLookups.WithLabelValues(provider, outcome).Inc()
	}))
	age := metadata.NewAgeEstimator(rpc)

	mon := monitor.New(
		monitor.Config{
			CheckInterval:   cfg.CheckInterval,
			FetchLimit:      cfg.FetchLimit,
			Retention:       cfg.Retention,
			CleanupInterval: cfg.CleanupInterval,
		},
		rpc, watchlist, store, resolver, age, dispatcher, history, metrics, logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return mon.Run(gctx)
	})

	if bot != nil {
		g.Go(func() error {
			return bot.Run(gctx)
		})
	}

	// Log subscription turns on-chain activity into immediate polls for the
	// seed wallet. Wallets added later are covered by the poll interval.
	if cfg.WSURL != "" && cfg.SeedWallet != "" {
		ws, err := solana.NewWSClient(gctx, cfg.WSURL, nil)
		if err != nil {
			return fmt.Errorf("create websocket client: %w", err)
		}
		defer ws.Close()

		wallet := cfg.SeedWallet
		notifications, err := ws.SubscribeLogs(gctx, solana.LogsFilter{Mentions: []string{wallet}})
		if err != nil {
			return fmt.Errorf("subscribe logs for %s: %w", wallet, err)
		}

		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case _, ok := <-notifications:
					if !ok {
						return nil
					}
					mon.Nudge(wallet)
				}
			}
		})
		logger.Printf("Log subscription active for %s", wallet)
	}

	logger.Println("Wallet sentry running")
	return g.Wait()
}

// openDedupStore picks the dedup backend: memory for dry runs, postgres when
// a DSN is set, sqlite otherwise.
func openDedupStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.DedupStore, error) {
	if cfg.UseMemory {
		logger.Println("Using in-memory dedup store (state is lost on restart)")
		return memory.NewDedupStore(), nil
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		logger.Println("Using postgres dedup store")
		return &pooledDedupStore{DedupStore: pgstore.NewDedupStore(pool), pool: pool}, nil
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	logger.Printf("Using sqlite dedup store at %s", cfg.DatabasePath)
	return db, nil
}

// pooledDedupStore closes the owning pool together with the store.
type pooledDedupStore struct {
	*pgstore.DedupStore
	pool *pgstore.Pool
}

func (s *pooledDedupStore) Close() error {
	s.pool.Close()
	return nil
}

func buildChannels(cfg *config.Config, bot *telegram.Bot, logger *log.Logger) []notify.Notifier {
	var channels []notify.Notifier

	if bot != nil && cfg.TelegramChatID != 0 {
		channels = append(channels, notify.NewTelegramNotifier(bot.API(), cfg.TelegramChatID))
	}
	if cfg.DiscordWebhookURL != "" {
		channels = append(channels, notify.NewDiscordNotifier(cfg.DiscordWebhookURL, nil))
	}
	if cfg.SMTPHost != "" {
		channels = append(channels, notify.NewEmailNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPTo))
	}

	if len(channels) == 0 {
		logger.Println("Warning: no notification channels configured, alerts will be logged only")
	}
	return channels
}
