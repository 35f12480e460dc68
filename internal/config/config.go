// Package config loads runtime configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solana-wallet-sentry/internal/solana"
)

// Config holds all runtime settings.
type Config struct {
	// Chain access
	RPCURL string
	WSURL  string // optional, enables the log-subscription nudge

	// Monitoring
	SeedWallet      string // optional wallet monitored from startup
	CheckInterval   time.Duration
	FetchLimit      int
	Retention       time.Duration
	CleanupInterval time.Duration

	// Storage
	DatabasePath  string // sqlite file, used unless a postgres DSN is set
	PostgresDSN   string
	ClickhouseDSN string // optional alert history sink
	UseMemory     bool   // volatile store, testing and dry runs

	// Channels
	TelegramToken     string
	TelegramChatID    int64
	DiscordWebhookURL string
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	SMTPTo            []string

	// Metadata providers
	BirdeyeAPIKey string

	// Observability
	MetricsAddr string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine, env vars alone are a valid setup.
	_ = godotenv.Load()

	checkSeconds, err := envInt("CHECK_INTERVAL", 3)
	if err != nil {
		return nil, err
	}
	fetchLimit, err := envInt("TX_FETCH_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	retentionHours, err := envInt("RETENTION_HOURS", 168)
	if err != nil {
		return nil, err
	}
	cleanupMinutes, err := envInt("CLEANUP_INTERVAL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	chatID, err := envInt64("TELEGRAM_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCURL:            envDefault("RPC_URL", "https://api.mainnet-beta.solana.com"),
		WSURL:             os.Getenv("WS_URL"),
		SeedWallet:        os.Getenv("WALLET_ADDRESS"),
		CheckInterval:     time.Duration(checkSeconds) * time.Second,
		FetchLimit:        fetchLimit,
		Retention:         time.Duration(retentionHours) * time.Hour,
		CleanupInterval:   time.Duration(cleanupMinutes) * time.Minute,
		DatabasePath:      envDefault("DATABASE_PATH", "sentry.db"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		ClickhouseDSN:     os.Getenv("CLICKHOUSE_DSN"),
		UseMemory:         os.Getenv("USE_MEMORY_STORE") == "true",
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:    chatID,
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          envDefault("SMTP_PORT", "587"),
		SMTPUsername:      os.Getenv("SMTP_USERNAME"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:          os.Getenv("SMTP_FROM"),
		SMTPTo:            splitList(os.Getenv("SMTP_TO")),
		BirdeyeAPIKey:     os.Getenv("BIRDEYE_API_KEY"),
		MetricsAddr:       envDefault("METRICS_ADDR", ":9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SeedWallet != "" && !solana.IsValidAddress(c.SeedWallet) {
		return fmt.Errorf("WALLET_ADDRESS is not a valid Solana address: %q", c.SeedWallet)
	}
	if !c.hasAlertChannel() && c.TelegramToken == "" {
		return fmt.Errorf("no alert channel configured: set TELEGRAM_TOKEN, DISCORD_WEBHOOK_URL or SMTP_HOST")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("CHECK_INTERVAL must be positive")
	}
	if c.FetchLimit <= 0 || c.FetchLimit > 1000 {
		return fmt.Errorf("TX_FETCH_LIMIT must be between 1 and 1000, got %d", c.FetchLimit)
	}
	return nil
}

func (c *Config) hasAlertChannel() bool {
	return (c.TelegramToken != "" && c.TelegramChatID != 0) ||
		c.DiscordWebhookURL != "" ||
		c.SMTPHost != ""
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
