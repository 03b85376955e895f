package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	ledgerService  ledger.LedgerService
	notifier       notification.Notifier
	policy         payroll.Policy
	location       *time.Location
	logger         *slog.Logger
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	ledgerService ledger.LedgerService,
	notifier notification.Notifier,
	policy payroll.Policy,
	location *time.Location,
	logger *slog.Logger,
) (payroll.PayrollService, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		ledgerService:  ledgerService,
		notifier:       notifier,
		policy:         policy,
		location:       location,
		logger:         logger,
	}, nil
}

// ========== PAYROLL GENERATION ==========

// Generate implements payroll.PayrollService. Either every in-scope employee
// gets a record and every consumed ledger entry is applied, or nothing is
// written.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) ([]payroll.PayrollRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var records []payroll.PayrollRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.generate(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payroll generated",
		slog.Int("period_month", req.PeriodMonth),
		slog.Int("period_year", req.PeriodYear),
		slog.Int("records", len(records)),
		slog.String("generated_by", req.GeneratedBy),
	)
	for _, r := range records {
		s.notifyRecord(ctx, notification.TypePayrollGenerated, r, req.GeneratedBy, "Payslip generated")
	}
	return records, nil
}

func (s *PayrollServiceImpl) generate(ctx context.Context, req payroll.GeneratePayrollRequest) ([]payroll.PayrollRecord, error) {
	month, year := req.PeriodMonth, req.PeriodYear

	if err := s.payrollRepo.LockPeriod(ctx, month, year); err != nil {
		return nil, fmt.Errorf("failed to lock payroll period: %w", err)
	}

	employees, err := s.employeeRepo.ListActive(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, payroll.ErrNoEmployeesInScope
	}
	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	existing, err := s.payrollRepo.CountByPeriod(ctx, month, year, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payroll records: %w", err)
	}
	if existing > 0 {
		return nil, &apperror.AlreadyGeneratedError{Month: month, Year: year, ExistingRecords: existing}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 1, -1)
	totals, err := s.attendanceRepo.SumByEmployees(ctx, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance totals: %w", err)
	}
	totalsByEmployee := make(map[string]attendance.Totals, len(totals))
	for _, t := range totals {
		totalsByEmployee[t.EmployeeID] = t
	}

	pending, err := s.ledgerService.PendingForPeriod(ctx, employeeIDs, month, year)
	if err != nil {
		return nil, err
	}
	entriesByEmployee := make(map[string][]ledger.Entry)
	for _, e := range pending {
		entriesByEmployee[e.EmployeeID] = append(entriesByEmployee[e.EmployeeID], e)
	}

	records := make([]payroll.PayrollRecord, 0, len(employees))
	for _, emp := range employees {
		att := totalsByEmployee[emp.ID]
		entries := entriesByEmployee[emp.ID]

		breakdown, err := payroll.Compute(payroll.ComputeInput{
			BaseSalary:                emp.BaseSalary,
			AttendanceOvertimeMinutes: att.TotalOvertimeMinutes,
			Entries:                   entries,
		}, s.policy)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
		}

		record := payroll.PayrollRecord{
			EmployeeID:       emp.ID,
			PeriodMonth:      month,
			PeriodYear:       year,
			BaseSalary:       emp.BaseSalary,
			OvertimeMinutes:  breakdown.OvertimeMinutes,
			OvertimeHours:    breakdown.OvertimeHours,
			OvertimePay:      breakdown.OvertimePay,
			Bonuses:          breakdown.Bonuses,
			Deductions:       breakdown.Deductions,
			Corrections:      breakdown.Corrections,
			Adjustments:      breakdown.Adjustments,
			GrossSalary:      breakdown.GrossSalary,
			TaxRate:          s.policy.TaxRate,
			TaxDeduction:     breakdown.TaxDeduction,
			NetSalary:        breakdown.NetSalary,
			TotalWorkDays:    att.WorkDays,
			TotalAbsentDays:  att.AbsentDays,
			TotalLateMinutes: att.TotalLateMinutes,
			Status:           payroll.PayrollStatusPending,
			GeneratedBy:      req.GeneratedBy,
		}

		created, err := s.payrollRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				return nil, &apperror.AlreadyGeneratedError{Month: month, Year: year}
			}
			return nil, fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
		}

		ids := payroll.AppliedIDs(entries)
		if err := s.ledgerService.MarkApplied(ctx, created.ID, ids); err != nil {
			if errors.Is(err, ledger.ErrEntryApplied) {
				return nil, fmt.Errorf("%w: %v", payroll.ErrLedgerMismatch, err)
			}
			return nil, err
		}
		created.AppliedEntryIDs = ids
		created.EmployeeName = &emp.FullName
		created.EmployeeCode = &emp.EmployeeCode
		records = append(records, created)
	}

	return records, nil
}

// ========== LIFECYCLE ==========

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, req payroll.ApprovePayrollRequest) (payroll.PayrollRecord, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	record, err := s.transition(ctx, req.ID, payroll.ActionApprove, payroll.TransitionUpdate{ActorID: req.ApprovedBy})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	s.notifyRecord(ctx, notification.TypePayrollApproved, record, req.ApprovedBy, "Payslip approved")
	return record, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.PayrollRecord, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	method := req.PaymentMethod
	record, err := s.transition(ctx, req.ID, payroll.ActionMarkPaid, payroll.TransitionUpdate{
		ActorID:          req.PaidBy,
		PaymentMethod:    &method,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	s.notifyRecord(ctx, notification.TypePayrollPaid, record, req.PaidBy, "Salary paid")
	return record, nil
}

func (s *PayrollServiceImpl) transition(ctx context.Context, id string, action payroll.Action, update payroll.TransitionUpdate) (payroll.PayrollRecord, error) {
	from, to, ok := payroll.Transition(action)
	if !ok {
		return payroll.PayrollRecord{}, fmt.Errorf("unknown payroll action %q", action)
	}

	record, err := s.payrollRepo.Transition(ctx, id, from, to, update)
	if err == nil {
		s.logger.Info("payroll record transitioned",
			slog.String("record_id", id),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
			slog.String("actor_id", update.ActorID),
		)
		return record, nil
	}
	if !errors.Is(err, payroll.ErrStatusMismatch) {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to %s payroll record: %w", action, err)
	}

	// No row matched: either the record is gone or it is in another status.
	current, getErr := s.GetRecord(ctx, id)
	if getErr != nil {
		return payroll.PayrollRecord{}, getErr
	}
	return payroll.PayrollRecord{}, &apperror.InvalidTransitionError{
		RecordID: id,
		From:     string(current.Status),
		Action:   string(action),
	}
}

// ========== READ PROJECTIONS ==========

// GetRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollRecord{}, apperror.NotFound("payroll record", id)
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	filter.Normalize()

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return records, total, nil
}

// GetPeriodSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriodSummary(ctx context.Context, month, year int) (payroll.PeriodSummary, error) {
	if month < 1 || month > 12 || year < 2000 || year > 9999 {
		return payroll.PeriodSummary{}, fmt.Errorf("%w: %02d/%d", payroll.ErrInvalidPeriod, month, year)
	}
	summary, err := s.payrollRepo.GetPeriodSummary(ctx, month, year)
	if err != nil {
		return payroll.PeriodSummary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return summary, nil
}

// ========== HELPERS ==========

func (s *PayrollServiceImpl) notifyRecord(ctx context.Context, t notification.EventType, r payroll.PayrollRecord, actorID, title string) {
	actor := actorID
	s.notifier.Notify(ctx, notification.Event{
		Type:        t,
		RecipientID: r.EmployeeID,
		ActorID:     &actor,
		Title:       title,
		Message:     fmt.Sprintf("Payroll %02d/%d: net salary %d", r.PeriodMonth, r.PeriodYear, r.NetSalary),
		Data: map[string]interface{}{
			"payroll_record_id": r.ID,
			"period_month":      r.PeriodMonth,
			"period_year":       r.PeriodYear,
			"status":            string(r.Status),
			"net_salary":        r.NetSalary,
		},
	})
}
