package notification

import "context"

// Notifier accepts events without blocking the caller. Delivery failures are
// logged and never reported back.
type Notifier interface {
	Notify(ctx context.Context, event Event)
	// Stop drains queued events and stops the workers.
	Stop()
}
