package notify

import (
	"fmt"
	"strings"
	"time"

	"solana-wallet-sentry/internal/domain"
)

// FormatAmount renders a token amount with thousands separators and up to
// six decimal places, trailing zeros trimmed.
func FormatAmount(amount float64) string {
	s := fmt.Sprintf("%.6f", amount)
	parts := strings.SplitN(s, ".", 2)

	intPart := parts[0]
	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var sb strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	grouped := sb.String()
	if negative {
		grouped = "-" + grouped
	}

	frac := strings.TrimRight(parts[1], "0")
	if frac == "" {
		return grouped
	}
	return grouped + "." + frac
}

// FormatPrice renders a USD price. Sub-cent meme coin prices need the extra
// precision: below $0.0001 eight decimals are shown, otherwise four.
func FormatPrice(price float64) string {
	if price < 0.0001 {
		return fmt.Sprintf("$%.8f", price)
	}
	return fmt.Sprintf("$%.4f", price)
}

// FormatAge humanizes a duration as seconds, minutes, hours or days.
// A nil duration renders as "Unknown".
func FormatAge(age *time.Duration) string {
	if age == nil {
		return "Unknown"
	}
	secs := int64(age.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%d seconds", secs)
	case secs < 3600:
		return fmt.Sprintf("%d minutes", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours", secs/3600)
	default:
		return fmt.Sprintf("%d days", secs/86400)
	}
}

// DefaultActionLinks returns the quick action links included with an alert.
func DefaultActionLinks(mint string) []domain.ActionLink {
	return []domain.ActionLink{
		{Label: "View on PumpFun", URL: "https://pump.fun/" + mint},
		{Label: "View on DexScreener", URL: "https://dexscreener.com/solana/" + mint},
		{Label: "View on Solscan", URL: "https://solscan.io/token/" + mint},
	}
}

// tokenEmoji picks an emoji from the token name or symbol.
func tokenEmoji(name, symbol string) string {
	lower := strings.ToLower(name + " " + symbol)
	switch {
	case strings.Contains(lower, "pump"):
		return "🚀"
	case strings.Contains(lower, "moon"):
		return "🌙"
	case strings.Contains(lower, "doge"):
		return "🐕"
	case strings.Contains(lower, "cat"):
		return "🐱"
	default:
		return "🪙"
	}
}

// BuildMarkdownMessage renders the alert as a Telegram Markdown message.
func BuildMarkdownMessage(alert *domain.Alert) string {
	var sb strings.Builder

	sb.WriteString("🚨 *New Token Buy Alert* 🚨\n\n")
	sb.WriteString(fmt.Sprintf("%s *Token:* %s (%s)\n", tokenEmoji(alert.TokenName, alert.Symbol), alert.TokenName, alert.Symbol))
	sb.WriteString(fmt.Sprintf("🔗 *Mint:* `%s`\n", alert.Mint))
	sb.WriteString(fmt.Sprintf("💰 *Amount:* %s %s\n", FormatAmount(alert.Amount), alert.Symbol))
	if alert.PriceUSD != nil {
		sb.WriteString(fmt.Sprintf("💵 *Price:* %s\n", FormatPrice(*alert.PriceUSD)))
	}
	if alert.Dex != nil {
		sb.WriteString(fmt.Sprintf("📊 *DEX:* %s\n", *alert.Dex))
	}
	sb.WriteString(fmt.Sprintf("⏰ *Age:* %s\n", FormatAge(alert.Age)))
	sb.WriteString(fmt.Sprintf("🔍 *TX:* https://solscan.io/tx/%s\n\n", alert.Signature))
	sb.WriteString(fmt.Sprintf("👤 *Wallet:* `%s`\n", alert.Wallet))
	sb.WriteString(fmt.Sprintf("🕐 *Time:* %s", alert.DetectedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	if len(alert.ActionLinks) > 0 {
		sb.WriteString("\n\n💡 *Quick Actions:*")
		for _, link := range alert.ActionLinks {
			sb.WriteString(fmt.Sprintf("\n• [%s](%s)", link.Label, link.URL))
		}
	}

	return sb.String()
}

// BuildPlainMessage renders the alert as plain text for channels without
// Markdown support.
func BuildPlainMessage(alert *domain.Alert) string {
	var sb strings.Builder

	sb.WriteString("New Token Buy Alert\n\n")
	sb.WriteString(fmt.Sprintf("Token: %s (%s)\n", alert.TokenName, alert.Symbol))
	sb.WriteString(fmt.Sprintf("Mint: %s\n", alert.Mint))
	sb.WriteString(fmt.Sprintf("Amount: %s %s\n", FormatAmount(alert.Amount), alert.Symbol))
	if alert.PriceUSD != nil {
		sb.WriteString(fmt.Sprintf("Price: %s\n", FormatPrice(*alert.PriceUSD)))
	}
	if alert.Dex != nil {
		sb.WriteString(fmt.Sprintf("DEX: %s\n", *alert.Dex))
	}
	sb.WriteString(fmt.Sprintf("Age: %s\n", FormatAge(alert.Age)))
	sb.WriteString(fmt.Sprintf("TX: https://solscan.io/tx/%s\n", alert.Signature))
	sb.WriteString(fmt.Sprintf("Wallet: %s\n", alert.Wallet))
	sb.WriteString(fmt.Sprintf("Time: %s", alert.DetectedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	return sb.String()
}
