package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetByEmployeeDate returns ErrAttendanceNotFound when no outcome is stored.
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Outcome, error)
	// Save upserts the outcome for (employee, date) only if the stored version
	// still equals expectedVersion (0 for a new row). On mismatch it returns
	// an *apperror.ConflictError.
	Save(ctx context.Context, outcome Outcome, expectedVersion int) (Outcome, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Outcome, error)
	Delete(ctx context.Context, employeeID string, date time.Time) error
	// SumByEmployees aggregates outcomes in [from, to] per employee.
	SumByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]Totals, error)
}
