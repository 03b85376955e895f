package schedule

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a 24h "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !validator.IsValidTimeOfDay(s) {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On places t on the calendar day of date, in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), int(t)/60, int(t)%60, 0, 0, loc)
}

// ScheduleAssignment is an employee's shift for an effective date range.
// Times are kept as stored so malformed rows surface when resolved.
type ScheduleAssignment struct {
	ID              string
	EmployeeID      string
	StartTime       string
	EndTime         string
	CrossesMidnight bool // checkout falls on the next calendar day
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time // nil means open-ended
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Defaults is the process-wide shift used when no assignment covers a date.
type Defaults struct {
	Start    TimeOfDay
	End      TimeOfDay
	Location *time.Location
}

type Source string

const (
	SourceAssignment Source = "assignment"
	SourceDefault    Source = "default"
)

// Expected is the resolved schedule for one employee on one date.
type Expected struct {
	EmployeeID      string
	Date            time.Time
	Start           time.Time
	End             time.Time
	StandardMinutes int
	Source          Source
	AssignmentID    *string
}
