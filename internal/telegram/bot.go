// Package telegram implements the command surface of the monitor: a
// long-polling bot through which users manage the wallet watchlist.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"solana-wallet-sentry/internal/monitor"
	"solana-wallet-sentry/internal/storage"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot routes Telegram commands onto the watchlist and dedup store. It owns
// no monitoring state of its own.
type Bot struct {
	api       *tgbotapi.BotAPI
	send      sender
	watchlist *monitor.Watchlist
	store     storage.DedupStore
	logger    *log.Logger
}

// NewBot creates a command bot.
func NewBot(token string, watchlist *monitor.Watchlist, store storage.DedupStore, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Bot{
		api:       api,
		send:      api,
		watchlist: watchlist,
		store:     store,
		logger:    logger,
	}, nil
}

// API exposes the underlying client so alert delivery can share the
// authenticated session instead of logging in twice.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// Run processes updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	b.logger.Printf("telegram: command bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	reply := b.execute(ctx, message.Text, message.Chat.ID)
	if reply == "" {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.send.Send(msg); err != nil {
		b.logger.Printf("telegram: sending reply failed: %v", err)
	}
}

// execute parses and runs one command, returning the reply text. Unknown
// input returns an empty string so free-form chat is ignored.
func (b *Bot) execute(ctx context.Context, text string, chatID int64) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/start":
		return "Welcome to Wallet Sentry!\n\n" + helpText

	case "/help":
		return helpText

	case "/addwallet":
		if len(args) < 1 {
			return "Usage: /addwallet <address>"
		}
		if err := b.watchlist.Add(args[0], chatID); err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return fmt.Sprintf("Now monitoring `%s`", args[0])

	case "/removewallet":
		if len(args) < 1 {
			return "Usage: /removewallet <address>"
		}
		if err := b.watchlist.Remove(args[0]); err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return fmt.Sprintf("Stopped monitoring `%s`", args[0])

	case "/listwallets":
		return b.listWallets()

	case "/stats":
		return b.stats(ctx)

	default:
		return ""
	}
}

const helpText = "Available commands:\n" +
	"/addwallet <address> - monitor a wallet for new token buys\n" +
	"/removewallet <address> - stop monitoring a wallet\n" +
	"/listwallets - show monitored wallets\n" +
	"/stats - monitoring statistics\n" +
	"/help - this message"

func (b *Bot) listWallets() string {
	wallets := b.watchlist.List()
	if len(wallets) == 0 {
		return "No wallets are being monitored. Add one with /addwallet <address>."
	}

	var sb strings.Builder
	sb.WriteString("*Monitored wallets:*\n\n")
	for i, w := range wallets {
		sb.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, w.Address))
	}
	return sb.String()
}

func (b *Bot) stats(ctx context.Context) string {
	st, err := b.store.Stats(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	return fmt.Sprintf(
		"*Monitoring stats:*\n"+
			"Wallets monitored: %d\n"+
			"Tokens alerted: %d\n"+
			"Signatures processed: %d\n"+
			"Oldest record age: %s",
		b.watchlist.Len(),
		st.TotalAlerts,
		st.TotalSignatures,
		st.OldestEntryAge.Round(time.Second))
}
