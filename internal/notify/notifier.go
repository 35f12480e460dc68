// Package notify delivers alerts to configured channels. Channel failures
// are logged and never propagate: the dedup claim stands once made, so a
// flaky channel costs one delivery, not a duplicate alert later.
package notify

import (
	"context"
	"log"

	"solana-wallet-sentry/internal/domain"
)

// Notifier delivers a single alert to one channel.
type Notifier interface {
	// Name identifies the channel in logs and metrics.
	Name() string

	// Notify delivers the alert.
	Notify(ctx context.Context, alert *domain.Alert) error
}

// Dispatcher fans alerts out to every configured channel.
type Dispatcher struct {
	channels []Notifier
	logger   *log.Logger

	// onFailure is invoked per failed channel delivery, for metrics.
	onFailure func(channel string)
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels []Notifier, logger *log.Logger) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

// OnFailure registers a callback invoked with the channel name whenever a
// delivery fails.
func (d *Dispatcher) OnFailure(fn func(channel string)) {
	d.onFailure = fn
}

// Channels returns the number of configured channels.
func (d *Dispatcher) Channels() int {
	return len(d.channels)
}

// Dispatch sends the alert to all channels. Returns the number of
// successful deliveries.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *domain.Alert) int {
	var delivered int
	for _, ch := range d.channels {
		if err := ch.Notify(ctx, alert); err != nil {
			d.logger.Printf("notify: %s delivery failed for %s: %v", ch.Name(), alert.Mint, err)
			if d.onFailure != nil {
				d.onFailure(ch.Name())
			}
			continue
		}
		delivered++
	}
	return delivered
}
