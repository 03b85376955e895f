package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "pending"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

var PayrollStatusValues = []string{
	string(PayrollStatusPending),
	string(PayrollStatusApproved),
	string(PayrollStatusPaid),
}

type Action string

const (
	ActionApprove  Action = "approve"
	ActionMarkPaid Action = "mark paid"
)

// transitions is the whole lifecycle: pending -> approved -> paid.
var transitions = map[Action]struct{ from, to PayrollStatus }{
	ActionApprove:  {PayrollStatusPending, PayrollStatusApproved},
	ActionMarkPaid: {PayrollStatusApproved, PayrollStatusPaid},
}

// Transition returns the (from, to) pair an action requires.
func Transition(action Action) (from, to PayrollStatus, ok bool) {
	t, ok := transitions[action]
	return t.from, t.to, ok
}

// PayrollRecord - Generated payroll result. Money fields are minor currency units.
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	BaseSalary      int64
	OvertimeMinutes int
	OvertimeHours   decimal.Decimal
	OvertimePay     int64
	Bonuses         int64
	Deductions      int64
	Corrections     int64
	Adjustments     int64 // corrections - deductions
	GrossSalary     int64
	TaxRate         decimal.Decimal
	TaxDeduction    int64
	NetSalary       int64

	TotalWorkDays    int
	TotalAbsentDays  int
	TotalLateMinutes int

	Status           PayrollStatus
	GeneratedBy      string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	PaidBy           *string
	PaidAt           *time.Time
	PaymentMethod    *string
	PaymentReference *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Set by generation only
	AppliedEntryIDs []string

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// TransitionUpdate carries the audit fields written with a status change.
type TransitionUpdate struct {
	ActorID          string
	PaymentMethod    *string
	PaymentReference *string
}

// PeriodSummary aggregates all records of one period.
type PeriodSummary struct {
	PeriodMonth      int
	PeriodYear       int
	TotalRecords     int
	PendingCount     int
	ApprovedCount    int
	PaidCount        int
	TotalBaseSalary  int64
	TotalOvertimePay int64
	TotalBonuses     int64
	TotalAdjustments int64
	TotalGrossSalary int64
	TotalTax         int64
	TotalNetSalary   int64
}
