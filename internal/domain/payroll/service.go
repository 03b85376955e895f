package payroll

import "context"

type PayrollService interface {
	// Generation
	Generate(ctx context.Context, req GeneratePayrollRequest) ([]PayrollRecord, error)

	// Lifecycle
	Approve(ctx context.Context, req ApprovePayrollRequest) (PayrollRecord, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (PayrollRecord, error)

	// Read projections
	GetRecord(ctx context.Context, id string) (PayrollRecord, error)
	ListRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	GetPeriodSummary(ctx context.Context, month, year int) (PeriodSummary, error)
}
