package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"solana-wallet-sentry/internal/domain"
)

// EmailNotifier delivers alerts over SMTP with plain auth.
type EmailNotifier struct {
	host string
	port string
	from string
	to   []string
	auth smtp.Auth

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(host, port, username, password, from string, to []string) *EmailNotifier {
	return &EmailNotifier{
		host: host,
		port: port,
		from: from,
		to:   to,
		auth: smtp.PlainAuth("", username, password, host),
		send: smtp.SendMail,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify sends the alert as a plain-text email.
func (n *EmailNotifier) Notify(_ context.Context, alert *domain.Alert) error {
	subject := fmt.Sprintf("Token alert: %s (%s)", alert.TokenName, alert.Symbol)

	var msg strings.Builder
	msg.WriteString("From: " + n.from + "\r\n")
	msg.WriteString("To: " + strings.Join(n.to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(BuildPlainMessage(alert))

	addr := n.host + ":" + n.port
	if err := n.send(addr, n.auth, n.from, n.to, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

var _ Notifier = (*EmailNotifier)(nil)
