package schedule

import (
	"context"
	"time"
)

type ScheduleAssignmentRepository interface {
	// GetCovering returns the most recent assignment whose effective range
	// contains date, or ErrScheduleAssignmentNotFound.
	GetCovering(ctx context.Context, employeeID string, date time.Time) (ScheduleAssignment, error)
}
