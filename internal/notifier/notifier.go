// Package notifier delivers alert messages to external channels. Delivery is
// fire-and-forget from the engine's perspective: a failure is logged and
// counted but never retried within the same evaluation pass.
package notifier

import (
	"context"
	"log"
)

// Notifier is the interface for all notification backends.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// LogNotifier writes notifications to the process log. Used when no Telegram
// credentials are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(_ context.Context, text string) error {
	log.Printf("[NOTIFY] %s", text)
	return nil
}
