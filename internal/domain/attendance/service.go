package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// Execute applies one attendance command and stores the resulting outcome.
	Execute(ctx context.Context, cmd Command) (Outcome, error)

	GetOutcome(ctx context.Context, employeeID string, date time.Time) (Outcome, error)
	ListOutcomes(ctx context.Context, req ListOutcomesRequest) ([]Outcome, error)
	DeleteOutcome(ctx context.Context, employeeID string, date time.Time) error

	CheckLeaveOverride(ctx context.Context, employeeID string, date time.Time) (LeaveOverride, error)
	Summary(ctx context.Context, req SummaryRequest) (Summary, error)

	Location() *time.Location
}
