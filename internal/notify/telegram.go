package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"solana-wallet-sentry/internal/domain"
)

// telegramSender is the slice of the bot API the notifier uses.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers alerts to a Telegram chat.
type TelegramNotifier struct {
	api           telegramSender
	defaultChatID int64
}

// NewTelegramNotifier creates a Telegram notifier. Alerts carrying a chat ID
// of their own are routed there, everything else goes to defaultChatID.
func NewTelegramNotifier(api *tgbotapi.BotAPI, defaultChatID int64) *TelegramNotifier {
	return &TelegramNotifier{api: api, defaultChatID: defaultChatID}
}

func (n *TelegramNotifier) Name() string { return "telegram" }

// Notify sends the alert as a Markdown message.
func (n *TelegramNotifier) Notify(_ context.Context, alert *domain.Alert) error {
	chatID := alert.ChatID
	if chatID == 0 {
		chatID = n.defaultChatID
	}

	msg := tgbotapi.NewMessage(chatID, BuildMarkdownMessage(alert))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

var _ Notifier = (*TelegramNotifier)(nil)
