package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Policy is the payroll configuration injected at construction time.
type Policy struct {
	TaxRate                decimal.Decimal
	StandardMonthlyMinutes int64
}

func (p Policy) Validate() error {
	if p.StandardMonthlyMinutes <= 0 {
		return &apperror.ConfigError{Key: "STANDARD_MONTHLY_MINUTES", Reason: "must be greater than 0"}
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return &apperror.ConfigError{Key: "TAX_RATE", Reason: fmt.Sprintf("must be in [0, 1), got %s", p.TaxRate)}
	}
	return nil
}

// ComputeInput is everything one employee's record is computed from.
type ComputeInput struct {
	BaseSalary                int64
	AttendanceOvertimeMinutes int
	Entries                   []ledger.Entry
}

// Breakdown is the computed money for one record. All amounts are minor units.
type Breakdown struct {
	OvertimeMinutes int
	OvertimeHours   decimal.Decimal
	OvertimePay     int64
	Bonuses         int64
	Deductions      int64
	Corrections     int64
	Adjustments     int64
	GrossSalary     int64
	TaxDeduction    int64
	NetSalary       int64
}

var sixty = decimal.NewFromInt(60)

// Compute applies the salary formulas:
//
//	overtimePay  = round(overtimeMinutes * base / standardMonthlyMinutes) + overtime entries
//	adjustments  = corrections - deductions
//	gross        = base + overtimePay + bonuses + adjustments
//	tax          = round(gross * taxRate), zero when gross <= 0
//	net          = gross - tax
//
// round is half away from zero on whole minor units.
func Compute(in ComputeInput, p Policy) (Breakdown, error) {
	if in.BaseSalary <= 0 {
		return Breakdown{}, ErrEmployeeHasNoBaseSalary
	}
	if err := p.Validate(); err != nil {
		return Breakdown{}, err
	}

	var b Breakdown
	b.OvertimeMinutes = in.AttendanceOvertimeMinutes
	overtimeHours := decimal.NewFromInt(int64(in.AttendanceOvertimeMinutes)).Div(sixty)
	var overtimeEntries int64

	for _, e := range in.Entries {
		switch e.Type {
		case ledger.EntryTypeBonus:
			b.Bonuses += e.Amount
		case ledger.EntryTypeDeduction:
			b.Deductions += e.Amount
			b.Adjustments += e.SignedAmount()
		case ledger.EntryTypeCorrection:
			b.Corrections += e.Amount
			b.Adjustments += e.SignedAmount()
		case ledger.EntryTypeOvertime:
			overtimeEntries += e.Amount
			if e.Hours != nil {
				overtimeHours = overtimeHours.Add(*e.Hours)
			}
		default:
			return Breakdown{}, fmt.Errorf("entry %s: %w", e.ID, ledger.ErrInvalidEntryType)
		}
	}

	attendancePay := decimal.NewFromInt(int64(in.AttendanceOvertimeMinutes)).
		Mul(decimal.NewFromInt(in.BaseSalary)).
		Div(decimal.NewFromInt(p.StandardMonthlyMinutes)).
		Round(0)

	b.OvertimeHours = overtimeHours.Round(2)
	b.OvertimePay = attendancePay.IntPart() + overtimeEntries
	b.GrossSalary = in.BaseSalary + b.OvertimePay + b.Bonuses + b.Adjustments

	if b.GrossSalary > 0 {
		b.TaxDeduction = decimal.NewFromInt(b.GrossSalary).Mul(p.TaxRate).Round(0).IntPart()
	}
	b.NetSalary = b.GrossSalary - b.TaxDeduction

	return b, nil
}

// AppliedIDs lists the ids of entries consumed by a computation.
func AppliedIDs(entries []ledger.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
