package ledger

import "context"

type LedgerService interface {
	AddEntry(ctx context.Context, req AddEntryRequest) (Entry, error)
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	GetEntry(ctx context.Context, id string) (Entry, error)
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]Entry, error)

	// PendingForPeriod and MarkApplied are used by payroll generation inside
	// its transaction.
	PendingForPeriod(ctx context.Context, employeeIDs []string, month, year int) ([]Entry, error)
	MarkApplied(ctx context.Context, payrollRecordID string, ids []string) error
}
