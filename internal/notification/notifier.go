package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// notifyTimeout bounds a single async delivery. Used by NotifyAsync and by ShutdownDrainDuration.
const notifyTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after gRPC GracefulStop before closing sinks,
// so in-flight async deliveries can finish.
const ShutdownDrainDuration = notifyTimeout

const drainPollInterval = 10 * time.Millisecond

// inflight counts NotifyAsync deliveries that have not returned yet.
var inflight atomic.Int64

// Notifier delivers one event. Implementations may block briefly.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyAsync delivers event in a goroutine so the caller is not blocked. A nil notifier is a no-op.
// The goroutine uses context.Background() with notifyTimeout so request cancellation does not abort delivery.
func NotifyAsync(n Notifier, event Event) {
	if n == nil {
		return
	}
	inflight.Add(1)
	go func() {
		defer inflight.Add(-1)
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, event); err != nil {
			zap.L().Warn("notification: delivery failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
		}
	}()
}

// Drain waits up to timeout for in-flight NotifyAsync deliveries and reports whether all finished.
// Call it after the server stops accepting requests and before closing the sinks.
func Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for inflight.Load() > 0 {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(drainPollInterval)
	}
	return true
}
