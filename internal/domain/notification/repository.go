package notification

import "context"

// Repository persists dispatched events to the outbox table read by the
// delivery side of the application.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	CreateBatch(ctx context.Context, events []*Event) error
}
