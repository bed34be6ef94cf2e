package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esuka/transfer-backend/internal/notifier"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []notifier.Event
	err    error
}

func (c *captureNotifier) Publish(ctx context.Context, event notifier.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, event)
	return nil
}

func (c *captureNotifier) Close() error { return nil }

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestDispatcher_DeliversEnqueuedEvents(t *testing.T) {
	sink := &captureNotifier{}
	d := NewNotificationDispatcher(sink, 8)
	stop := d.Run(context.Background())

	d.Enqueue(notifier.Event{Type: notifier.EventTransferSettled})
	d.Enqueue(notifier.Event{Type: notifier.EventUserRegistered})

	require.Eventually(t, func() bool {
		return sink.count() == 2
	}, time.Second, 5*time.Millisecond)

	stop()
}

func TestDispatcher_DrainsQueueOnStop(t *testing.T) {
	sink := &captureNotifier{}
	d := NewNotificationDispatcher(sink, 8)

	// Enqueue before the loop starts so the stop path has to drain.
	for i := 0; i < 5; i++ {
		d.Enqueue(notifier.Event{Type: notifier.EventTransferSettled})
	}

	stop := d.Run(context.Background())
	stop()

	assert.Equal(t, 5, sink.count())
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	sink := &captureNotifier{}
	d := NewNotificationDispatcher(sink, 1)

	// The loop is not running, so only one event fits.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			d.Enqueue(notifier.Event{Type: notifier.EventTransferSettled})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestDispatcher_PublishFailureDoesNotStopLoop(t *testing.T) {
	sink := &captureNotifier{err: errors.New("broker unavailable")}
	d := NewNotificationDispatcher(sink, 8)
	stop := d.Run(context.Background())

	d.Enqueue(notifier.Event{Type: notifier.EventTransferSettled})

	// Recover the broker and confirm the loop is still serving.
	time.Sleep(20 * time.Millisecond)
	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	d.Enqueue(notifier.Event{Type: notifier.EventUserRegistered})
	require.Eventually(t, func() bool {
		return sink.count() == 1
	}, time.Second, 5*time.Millisecond)

	stop()
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	d := NewNotificationDispatcher(&captureNotifier{}, 8)
	stop := d.Run(context.Background())
	stop()
	assert.NotPanics(t, func() { stop() })
}
