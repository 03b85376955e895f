package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
)

type scheduleResolverImpl struct {
	assignmentRepo schedule.ScheduleAssignmentRepository
	defaults       schedule.Defaults
}

func NewScheduleResolver(assignmentRepo schedule.ScheduleAssignmentRepository, defaults schedule.Defaults) schedule.ScheduleResolver {
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	return &scheduleResolverImpl{
		assignmentRepo: assignmentRepo,
		defaults:       defaults,
	}
}

// Location implements schedule.ScheduleResolver.
func (s *scheduleResolverImpl) Location() *time.Location {
	return s.defaults.Location
}

// Resolve implements schedule.ScheduleResolver.
func (s *scheduleResolverImpl) Resolve(ctx context.Context, employeeID string, date time.Time) (schedule.Expected, error) {
	if employeeID == "" {
		return schedule.Expected{}, schedule.ErrEmployeeIDRequired
	}

	loc := s.defaults.Location
	day := dayStart(date, loc)

	assignment, err := s.assignmentRepo.GetCovering(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleAssignmentNotFound) {
			return s.expected(employeeID, day, s.defaults.Start, s.defaults.End, false, schedule.SourceDefault, nil)
		}
		return schedule.Expected{}, fmt.Errorf("failed to get schedule assignment: %w", err)
	}

	start, err := schedule.ParseTimeOfDay(assignment.StartTime)
	if err != nil {
		return schedule.Expected{}, &apperror.ConfigError{
			Key:    "schedule_assignment." + assignment.ID + ".start_time",
			Reason: err.Error(),
		}
	}
	end, err := schedule.ParseTimeOfDay(assignment.EndTime)
	if err != nil {
		return schedule.Expected{}, &apperror.ConfigError{
			Key:    "schedule_assignment." + assignment.ID + ".end_time",
			Reason: err.Error(),
		}
	}

	id := assignment.ID
	return s.expected(employeeID, day, start, end, assignment.CrossesMidnight, schedule.SourceAssignment, &id)
}

func (s *scheduleResolverImpl) expected(
	employeeID string,
	day time.Time,
	start, end schedule.TimeOfDay,
	crossesMidnight bool,
	source schedule.Source,
	assignmentID *string,
) (schedule.Expected, error) {
	if !crossesMidnight && end <= start {
		key := "default_shift"
		if assignmentID != nil {
			key = "schedule_assignment." + *assignmentID
		}
		return schedule.Expected{}, &apperror.ConfigError{
			Key:    key,
			Reason: fmt.Sprintf("end %s is not after start %s", end, start),
		}
	}

	loc := s.defaults.Location
	expectedStart := start.On(day, loc)
	endDay := day
	if crossesMidnight {
		endDay = day.AddDate(0, 0, 1)
	}
	expectedEnd := end.On(endDay, loc)

	return schedule.Expected{
		EmployeeID:      employeeID,
		Date:            day,
		Start:           expectedStart,
		End:             expectedEnd,
		StandardMinutes: int(expectedEnd.Sub(expectedStart).Minutes()),
		Source:          source,
		AssignmentID:    assignmentID,
	}, nil
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
