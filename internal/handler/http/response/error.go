package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrActorRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Shared taxonomy
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, apperror.ErrImmutableEntry):
		Conflict(w, "IMMUTABLE_ENTRY", err.Error())
	case errors.Is(err, apperror.ErrInvalidTransition):
		Conflict(w, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, apperror.ErrAlreadyGenerated):
		Conflict(w, "ALREADY_GENERATED", err.Error())
	case errors.Is(err, apperror.ErrVersionConflict):
		Conflict(w, "VERSION_CONFLICT", err.Error())
	case errors.Is(err, apperror.ErrConfig):
		slog.Error("configuration error", "error", err)
		Error(w, http.StatusInternalServerError, "CONFIG_ERROR", err.Error(), nil)

	// Attendance rule violations
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "ATTENDANCE_CONFLICT", err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrInvalidMinutes),
		errors.Is(err, attendance.ErrUnknownCommand):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee
	case errors.Is(err, employee.ErrEmployeeInactive):
		Error(w, http.StatusUnprocessableEntity, "EMPLOYEE_INACTIVE", err.Error(), nil)

	// Ledger
	case errors.Is(err, ledger.ErrEntryNotFound):
		NotFound(w, "Ledger entry not found")

	// Payroll
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrNoEmployeesInScope),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary):
		Error(w, http.StatusUnprocessableEntity, "MISSING_BASE_SALARY", err.Error(), nil)
	case errors.Is(err, payroll.ErrLedgerMismatch):
		Conflict(w, "LEDGER_MISMATCH", err.Error())

	// Schedule
	case errors.Is(err, schedule.ErrEmployeeIDRequired),
		errors.Is(err, schedule.ErrInvalidDateFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
