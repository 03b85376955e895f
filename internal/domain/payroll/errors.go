package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrStatusMismatch             = errors.New("payroll record is not in the required status")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrEmployeeHasNoBaseSalary    = errors.New("employee has no base salary configured")
	ErrNoEmployeesInScope         = errors.New("no active employees in scope")
	ErrLedgerMismatch             = errors.New("ledger entries changed during generation")
)
