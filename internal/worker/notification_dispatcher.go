package worker

import (
	"context"
	"sync"
	"time"

	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/esuka/transfer-backend/internal/observability"
	"go.uber.org/zap"
)

// NotificationDispatcher decouples request handling from the notifier.
// Settlement enqueues an event and moves on; delivery happens here. A full
// queue drops the event rather than blocking a settlement that has already
// committed.
type NotificationDispatcher struct {
	notifier    notifier.Notifier
	queue       chan notifier.Event
	sendTimeout time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	doneCh      chan struct{}
}

func NewNotificationDispatcher(n notifier.Notifier, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &NotificationDispatcher{
		notifier:    n,
		queue:       make(chan notifier.Event, queueSize),
		sendTimeout: 5 * time.Second,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// WithSendTimeout updates the per-event publish timeout.
func (d *NotificationDispatcher) WithSendTimeout(timeout time.Duration) *NotificationDispatcher {
	if timeout > 0 {
		d.sendTimeout = timeout
	}
	return d
}

// Enqueue hands an event to the dispatcher without blocking.
func (d *NotificationDispatcher) Enqueue(event notifier.Event) {
	select {
	case d.queue <- event:
		observability.SetNotificationQueueSize(len(d.queue))
	default:
		observability.IncrementNotification("dropped")
		zap.L().Warn("notification queue full, event dropped", zap.String("type", event.Type))
	}
}

// Start blocks and drains the queue until stopped. Pending events are
// delivered before the loop exits.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	defer close(d.doneCh)
	zap.L().Info("notification dispatcher starting", zap.Int("queue_capacity", cap(d.queue)))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("notification dispatcher context canceled")
			return
		case <-d.stopCh:
			d.drain()
			zap.L().Info("notification dispatcher stopped")
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

// Stop stops the dispatcher and waits for in-flight delivery to finish.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	<-d.doneCh
}

// Run starts the dispatcher in a goroutine and returns a stop function.
func (d *NotificationDispatcher) Run(ctx context.Context) func() {
	go d.Start(ctx)
	return d.Stop
}

func (d *NotificationDispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, event notifier.Event) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	observability.SetNotificationQueueSize(len(d.queue))
	if err := d.notifier.Publish(sendCtx, event); err != nil {
		observability.IncrementNotification("failed")
		zap.L().Error("notification delivery failed", zap.String("type", event.Type), zap.Error(err))
		return
	}
	observability.IncrementNotification("sent")
}
