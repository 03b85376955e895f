package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository is a read-only view of approved leave owned by the
// leave-approval subsystem.
type LeaveRequestRepository interface {
	IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
	// ApprovedLeaveDates expands approved requests overlapping [from, to] into
	// individual calendar dates clipped to that range.
	ApprovedLeaveDates(ctx context.Context, employeeID string, from, to time.Time) ([]time.Time, error)
}
