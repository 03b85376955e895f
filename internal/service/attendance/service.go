package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRequestRepository
	resolver       schedule.ScheduleResolver
	notifier       notification.Notifier
	logger         *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	resolver schedule.ScheduleResolver,
	notifier notification.Notifier,
	logger *slog.Logger,
) attendance.AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		resolver:       resolver,
		notifier:       notifier,
		logger:         logger,
	}
}

// Location implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Location() *time.Location {
	return s.resolver.Location()
}

// Execute implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Execute(ctx context.Context, cmd attendance.Command) (attendance.Outcome, error) {
	if cmd == nil {
		return attendance.Outcome{}, attendance.ErrUnknownCommand
	}
	target := cmd.Target()

	if err := s.ensureActiveEmployee(ctx, target.EmployeeID); err != nil {
		return attendance.Outcome{}, err
	}

	current, err := s.attendanceRepo.GetByEmployeeDate(ctx, target.EmployeeID, target.Date)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Outcome{}, fmt.Errorf("failed to get attendance outcome: %w", err)
	}
	// current stays the zero Outcome when nothing is stored yet

	if target.ExpectedVersion != nil && *target.ExpectedVersion != current.Version {
		return attendance.Outcome{}, &apperror.ConflictError{
			Entity:          "attendance outcome",
			ID:              outcomeKey(target.EmployeeID, target.Date),
			ExpectedVersion: *target.ExpectedVersion,
			ActualVersion:   current.Version,
		}
	}

	var expected schedule.Expected
	if attendance.NeedsSchedule(cmd) {
		expected, err = s.resolver.Resolve(ctx, target.EmployeeID, target.Date)
		if err != nil {
			return attendance.Outcome{}, err
		}
	}

	next, err := attendance.Apply(current, cmd, expected)
	if err != nil {
		return attendance.Outcome{}, err
	}

	saved, err := s.attendanceRepo.Save(ctx, next, current.Version)
	if err != nil {
		return attendance.Outcome{}, err
	}

	if cmd.Kind() == attendance.KindCheckIn {
		s.notifyCheckedIn(ctx, saved, target.ActorID)
	}

	return saved, nil
}

// GetOutcome implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOutcome(ctx context.Context, employeeID string, date time.Time) (attendance.Outcome, error) {
	outcome, err := s.attendanceRepo.GetByEmployeeDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Outcome{}, apperror.NotFound("attendance outcome", outcomeKey(employeeID, date))
		}
		return attendance.Outcome{}, fmt.Errorf("failed to get attendance outcome: %w", err)
	}
	return outcome, nil
}

// ListOutcomes implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListOutcomes(ctx context.Context, req attendance.ListOutcomesRequest) ([]attendance.Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	from, _ := time.ParseInLocation("2006-01-02", req.From, s.Location())
	to, _ := time.ParseInLocation("2006-01-02", req.To, s.Location())

	outcomes, err := s.attendanceRepo.ListByEmployee(ctx, req.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance outcomes: %w", err)
	}
	return outcomes, nil
}

// DeleteOutcome implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteOutcome(ctx context.Context, employeeID string, date time.Time) error {
	if err := s.attendanceRepo.Delete(ctx, employeeID, date); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return apperror.NotFound("attendance outcome", outcomeKey(employeeID, date))
		}
		return fmt.Errorf("failed to delete attendance outcome: %w", err)
	}
	s.logger.Info("attendance outcome deleted",
		slog.String("employee_id", employeeID),
		slog.String("date", date.Format("2006-01-02")),
	)
	return nil
}

// CheckLeaveOverride implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckLeaveOverride(ctx context.Context, employeeID string, date time.Time) (attendance.LeaveOverride, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.LeaveOverride{}, err
	}

	stored := attendance.StatusNotMarked
	outcome, err := s.attendanceRepo.GetByEmployeeDate(ctx, employeeID, date)
	switch {
	case err == nil:
		stored = outcome.Status
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.LeaveOverride{}, fmt.Errorf("failed to get attendance outcome: %w", err)
	}

	onLeave, err := s.leaveRepo.IsOnApprovedLeave(ctx, employeeID, date)
	if err != nil {
		return attendance.LeaveOverride{}, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return attendance.LeaveOverride{
		EmployeeID:      employeeID,
		Date:            date,
		OnLeave:         onLeave,
		StoredStatus:    stored,
		EffectiveStatus: attendance.EffectiveStatus(stored, onLeave),
	}, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, req attendance.SummaryRequest) (attendance.Summary, error) {
	if err := req.Validate(); err != nil {
		return attendance.Summary{}, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.Summary{}, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.Location())
	to := from.AddDate(0, 1, -1)

	outcomes, err := s.attendanceRepo.ListByEmployee(ctx, req.EmployeeID, from, to)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list attendance outcomes: %w", err)
	}
	leaveDates, err := s.leaveRepo.ApprovedLeaveDates(ctx, req.EmployeeID, from, to)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	return attendance.Summarize(req.EmployeeID, req.Month, req.Year, outcomes, leaveDates), nil
}

func (s *AttendanceServiceImpl) ensureEmployee(ctx context.Context, employeeID string) error {
	_, err := s.getEmployee(ctx, employeeID)
	return err
}

// ensureActiveEmployee guards writes. Reads stay open so the history of an
// employee who has left can still be inspected.
func (s *AttendanceServiceImpl) ensureActiveEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return fmt.Errorf("%w: %s", employee.ErrEmployeeInactive, employeeID)
	}
	return nil
}

func (s *AttendanceServiceImpl) getEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, apperror.NotFound("employee", employeeID)
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) notifyCheckedIn(ctx context.Context, o attendance.Outcome, actorID string) {
	event := notification.Event{
		Type:        notification.TypeAttendanceCheckedIn,
		RecipientID: o.EmployeeID,
		Title:       "Checked in",
		Message:     fmt.Sprintf("Check-in recorded for %s with status %s", o.Date.Format("2006-01-02"), o.Status),
		Data: map[string]interface{}{
			"attendance_id": o.ID,
			"date":          o.Date.Format("2006-01-02"),
			"status":        string(o.Status),
			"late_minutes":  o.LateMinutes,
		},
	}
	if actorID != "" {
		event.ActorID = &actorID
	}
	s.notifier.Notify(ctx, event)
}

func outcomeKey(employeeID string, date time.Time) string {
	return employeeID + "@" + date.Format("2006-01-02")
}
