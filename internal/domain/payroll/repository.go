package payroll

import "context"

type PayrollRepository interface {
	// LockPeriod serializes generation for one period until the transaction ends.
	LockPeriod(ctx context.Context, month, year int) error
	CountByPeriod(ctx context.Context, month, year int, employeeIDs []string) (int, error)

	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// Transition moves a record from -> to only if it is currently in from.
	// It returns ErrStatusMismatch when no row matched.
	Transition(ctx context.Context, id string, from, to PayrollStatus, update TransitionUpdate) (PayrollRecord, error)

	GetPeriodSummary(ctx context.Context, month, year int) (PeriodSummary, error)
}
