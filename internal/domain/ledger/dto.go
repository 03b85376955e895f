package ledger

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AddEntryRequest struct {
	EmployeeID  string           `json:"employee_id"`
	Type        string           `json:"type"`
	Amount      int64            `json:"amount"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
	Reason      string           `json:"reason"`
	PeriodMonth int              `json:"period_month"`
	PeriodYear  int              `json:"period_year"`
	CreatedBy   string           `json:"-"`
}

func (r *AddEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if !validator.IsInSlice(r.Type, EntryTypeValues) {
		errs.Add("type", "must be one of bonus, deduction, overtime, correction")
	} else if err := CheckAmount(EntryType(r.Type), r.Amount, r.Hours != nil, r.Hours != nil && r.Hours.IsPositive()); err != nil {
		errs.Add(amountField(err), err.Error())
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}
	if !validator.IsValidMonth(r.PeriodMonth) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs.Add("period_year", "must be a four-digit year")
	}
	if validator.IsEmpty(r.CreatedBy) {
		errs.Add("created_by", "acting user is required")
	}

	return errs.Err()
}

type UpdateEntryRequest struct {
	ID        string           `json:"-"`
	Amount    *int64           `json:"amount,omitempty"`
	Hours     *decimal.Decimal `json:"hours,omitempty"`
	Reason    *string          `json:"reason,omitempty"`
	UpdatedBy string           `json:"-"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "is required")
	}
	if r.Amount == nil && r.Hours == nil && r.Reason == nil {
		errs.Add("amount", "at least one of amount, hours or reason must be provided")
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs.Add("reason", "must not be empty")
	}

	return errs.Err()
}

// ValidateAgainst checks the merged result of the update against the
// existing entry's type rules.
func (r *UpdateEntryRequest) ValidateAgainst(existing Entry) error {
	amount := existing.Amount
	if r.Amount != nil {
		amount = *r.Amount
	}
	hours := existing.Hours
	if r.Hours != nil {
		hours = r.Hours
	}
	if err := CheckAmount(existing.Type, amount, hours != nil, hours != nil && hours.IsPositive()); err != nil {
		return validator.ValidationErrors{{Field: amountField(err), Message: err.Error()}}
	}
	return nil
}

type ListEntriesRequest struct {
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Type        *string
}

func (r *ListEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if !validator.IsValidMonth(r.PeriodMonth) {
		errs.Add("month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs.Add("year", "must be a four-digit year")
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, EntryTypeValues) {
		errs.Add("type", "must be one of bonus, deduction, overtime, correction")
	}

	return errs.Err()
}

func (r *ListEntriesRequest) Filter() ListFilter {
	f := ListFilter{EmployeeID: r.EmployeeID, PeriodMonth: r.PeriodMonth, PeriodYear: r.PeriodYear}
	if r.Type != nil {
		t := EntryType(*r.Type)
		f.Type = &t
	}
	return f
}

type EntryResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	Type            EntryType        `json:"type"`
	Amount          int64            `json:"amount"`
	Hours           *decimal.Decimal `json:"hours,omitempty"`
	Reason          string           `json:"reason"`
	PeriodMonth     int              `json:"period_month"`
	PeriodYear      int              `json:"period_year"`
	Applied         bool             `json:"applied"`
	PayrollRecordID *string          `json:"payroll_record_id,omitempty"`
	AppliedAt       *time.Time       `json:"applied_at,omitempty"`
	CreatedBy       string           `json:"created_by"`
	UpdatedBy       *string          `json:"updated_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func ToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		Type:            e.Type,
		Amount:          e.Amount,
		Hours:           e.Hours,
		Reason:          e.Reason,
		PeriodMonth:     e.PeriodMonth,
		PeriodYear:      e.PeriodYear,
		Applied:         e.Applied,
		PayrollRecordID: e.PayrollRecordID,
		AppliedAt:       e.AppliedAt,
		CreatedBy:       e.CreatedBy,
		UpdatedBy:       e.UpdatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToEntryResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out
}

func amountField(err error) string {
	switch err {
	case ErrHoursRequired, ErrHoursNotAllowed:
		return "hours"
	case ErrInvalidEntryType:
		return "type"
	default:
		return "amount"
	}
}
