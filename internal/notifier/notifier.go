package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event is an outbound notification. Delivery is best-effort: a failed send
// is logged and counted but never fails the operation that produced it.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventTransferSettled = "transfer.settled"
	EventUserRegistered  = "user.registered"
	EventDepositIntent   = "deposit.intent"
)

// Notifier publishes events to an external channel.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoOpNotifier is used when no broker is configured.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) Publish(ctx context.Context, event Event) error {
	zap.L().Debug("notifier disabled, event dropped", zap.String("type", event.Type))
	return nil
}

func (n *NoOpNotifier) Close() error {
	return nil
}
