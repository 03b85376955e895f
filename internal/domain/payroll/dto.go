package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PAYROLL RECORD DTOs ==========

type GeneratePayrollRequest struct {
	PeriodMonth int            `json:"period_month"`
	PeriodYear  int            `json:"period_year"`
	Scope       employee.Scope `json:"scope"` // empty = all active employees
	GeneratedBy string         `json:"-"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.PeriodMonth) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs.Add("period_year", "must be a four-digit year")
	}
	for _, id := range r.Scope.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("scope.employee_ids", "must contain valid UUIDs")
			break
		}
	}
	if r.Scope.DepartmentID != nil && !validator.IsValidUUID(*r.Scope.DepartmentID) {
		errs.Add("scope.department_id", "must be a valid UUID")
	}
	if len(r.Scope.EmployeeIDs) > 0 && r.Scope.DepartmentID != nil {
		errs.Add("scope", "use either employee_ids or department_id, not both")
	}
	if validator.IsEmpty(r.GeneratedBy) {
		errs.Add("generated_by", "acting user is required")
	}

	return errs.Err()
}

type ApprovePayrollRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"-"`
}

func (r *ApprovePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "must be a valid UUID")
	}
	if validator.IsEmpty(r.ApprovedBy) {
		errs.Add("approved_by", "acting user is required")
	}

	return errs.Err()
}

type MarkPaidRequest struct {
	ID               string  `json:"-"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	PaidBy           string  `json:"-"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "must be a valid UUID")
	}
	if validator.IsEmpty(r.PaymentMethod) {
		errs.Add("payment_method", "is required")
	}
	if validator.IsEmpty(r.PaidBy) {
		errs.Add("paid_by", "acting user is required")
	}

	return errs.Err()
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PeriodMonth != nil && !validator.IsValidMonth(*f.PeriodMonth) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if f.PeriodYear != nil && !validator.IsValidYear(*f.PeriodYear) {
		errs.Add("period_year", "must be a four-digit year")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, PayrollStatusValues) {
		errs.Add("status", "must be one of pending, approved, paid")
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}

	return errs.Err()
}

// Normalize applies paging defaults.
func (f *PayrollFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type PayrollRecordResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	EmployeeCode     *string         `json:"employee_code,omitempty"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	BaseSalary       int64           `json:"base_salary"`
	OvertimeMinutes  int             `json:"overtime_minutes"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	OvertimePay      int64           `json:"overtime_pay"`
	Bonuses          int64           `json:"bonuses"`
	Deductions       int64           `json:"deductions"`
	Corrections      int64           `json:"corrections"`
	Adjustments      int64           `json:"adjustments"`
	GrossSalary      int64           `json:"gross_salary"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxDeduction     int64           `json:"tax_deduction"`
	NetSalary        int64           `json:"net_salary"`
	TotalWorkDays    int             `json:"total_work_days"`
	TotalAbsentDays  int             `json:"total_absent_days"`
	TotalLateMinutes int             `json:"total_late_minutes"`
	Status           PayrollStatus   `json:"status"`
	GeneratedBy      string          `json:"generated_by"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidBy           *string         `json:"paid_by,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod    *string         `json:"payment_method,omitempty"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	AppliedEntryIDs  []string        `json:"applied_entry_ids,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		EmployeeCode:     r.EmployeeCode,
		PeriodMonth:      r.PeriodMonth,
		PeriodYear:       r.PeriodYear,
		BaseSalary:       r.BaseSalary,
		OvertimeMinutes:  r.OvertimeMinutes,
		OvertimeHours:    r.OvertimeHours,
		OvertimePay:      r.OvertimePay,
		Bonuses:          r.Bonuses,
		Deductions:       r.Deductions,
		Corrections:      r.Corrections,
		Adjustments:      r.Adjustments,
		GrossSalary:      r.GrossSalary,
		TaxRate:          r.TaxRate,
		TaxDeduction:     r.TaxDeduction,
		NetSalary:        r.NetSalary,
		TotalWorkDays:    r.TotalWorkDays,
		TotalAbsentDays:  r.TotalAbsentDays,
		TotalLateMinutes: r.TotalLateMinutes,
		Status:           r.Status,
		GeneratedBy:      r.GeneratedBy,
		ApprovedBy:       r.ApprovedBy,
		ApprovedAt:       r.ApprovedAt,
		PaidBy:           r.PaidBy,
		PaidAt:           r.PaidAt,
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
		AppliedEntryIDs:  r.AppliedEntryIDs,
		CreatedAt:        r.CreatedAt,
	}
}

func ToRecordResponses(records []PayrollRecord) []PayrollRecordResponse {
	out := make([]PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToRecordResponse(r))
	}
	return out
}

type PayrollSummaryResponse struct {
	PeriodMonth      int   `json:"period_month"`
	PeriodYear       int   `json:"period_year"`
	TotalRecords     int   `json:"total_records"`
	PendingCount     int   `json:"pending_count"`
	ApprovedCount    int   `json:"approved_count"`
	PaidCount        int   `json:"paid_count"`
	TotalBaseSalary  int64 `json:"total_base_salary"`
	TotalOvertimePay int64 `json:"total_overtime_pay"`
	TotalBonuses     int64 `json:"total_bonuses"`
	TotalAdjustments int64 `json:"total_adjustments"`
	TotalGrossSalary int64 `json:"total_gross_salary"`
	TotalTax         int64 `json:"total_tax"`
	TotalNetSalary   int64 `json:"total_net_salary"`
}

func ToSummaryResponse(s PeriodSummary) PayrollSummaryResponse {
	return PayrollSummaryResponse(s)
}
