package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeBonus      EntryType = "bonus"
	EntryTypeDeduction  EntryType = "deduction"
	EntryTypeOvertime   EntryType = "overtime"
	EntryTypeCorrection EntryType = "correction"
)

var EntryTypeValues = []string{
	string(EntryTypeBonus),
	string(EntryTypeDeduction),
	string(EntryTypeOvertime),
	string(EntryTypeCorrection),
}

// Entry is one pending adjustment for an employee's payroll period.
// Amount is in minor currency units; a deduction stores the magnitude to
// subtract and a correction may be negative.
type Entry struct {
	ID              string
	EmployeeID      string
	Type            EntryType
	Amount          int64
	Hours           *decimal.Decimal // overtime only
	Reason          string
	PeriodMonth     int
	PeriodYear      int
	Applied         bool
	PayrollRecordID *string
	AppliedAt       *time.Time
	CreatedBy       string
	UpdatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SignedAmount is the entry's contribution to gross salary.
func (e Entry) SignedAmount() int64 {
	if e.Type == EntryTypeDeduction {
		return -e.Amount
	}
	return e.Amount
}

type ListFilter struct {
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Type        *EntryType
}
