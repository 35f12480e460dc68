package domain

import "time"

// ActionLink is a labeled URL included in an alert for quick follow-up.
type ActionLink struct {
	Label string
	URL   string
}

// Alert is the payload handed to notification channels for a newly
// acquired token. All presentation formatting happens in the notify layer.
type Alert struct {
	TokenName   string
	Symbol      string
	Mint        string
	Amount      float64
	Decimals    int
	Age         *time.Duration // token or pairing age, nil when unknown
	Signature   string
	PriceUSD    *float64
	Dex         *string
	Wallet      string
	ChatID      int64 // Telegram routing, 0 = default chat
	DetectedAt  time.Time
	ActionLinks []ActionLink
}
