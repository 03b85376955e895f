package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type EntryUpdate struct {
	Amount    *int64
	Hours     *decimal.Decimal
	Reason    *string
	UpdatedBy string
}

type LedgerRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	// UpdateUnapplied and DeleteUnapplied only touch rows with applied = false.
	// They return ErrEntryApplied for applied rows and ErrEntryNotFound for missing ones.
	UpdateUnapplied(ctx context.Context, id string, update EntryUpdate) (Entry, error)
	DeleteUnapplied(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	// ListUnappliedForPeriod locks the returned rows until the surrounding transaction ends.
	ListUnappliedForPeriod(ctx context.Context, employeeIDs []string, month, year int) ([]Entry, error)
	// MarkApplied flips applied on unapplied rows in ids and returns how many
	// now belong to payrollRecordID. Rows already applied to that record count.
	MarkApplied(ctx context.Context, ids []string, payrollRecordID string) (int64, error)
}
