package attendance

import (
	"time"
)

type Status string

const (
	StatusNotMarked Status = "not_marked"
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"
	StatusOnLeave   Status = "on_leave"
)

// Outcome is the canonical attendance result for one employee on one
// calendar date. Version increases by one on every stored write.
type Outcome struct {
	ID                    string
	EmployeeID            string
	Date                  time.Time
	CheckIn               *time.Time
	CheckOut              *time.Time
	Status                Status
	IsLate                bool
	LateMinutes           int
	IsEarlyDeparture      bool
	EarlyDepartureMinutes int
	OvertimeMinutes       int
	BreakMinutes          int
	WorkingMinutes        int
	Location              *string
	Notes                 *string
	Version               int
	UpdatedBy             *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// ManualEarlyDepartureMinutes is the part of EarlyDepartureMinutes
	// that came from corrections rather than the check-out time.
	ManualEarlyDepartureMinutes int
}

// IsNew reports whether the outcome has never been stored.
func (o Outcome) IsNew() bool {
	return o.Version == 0
}

// Totals aggregates a period of outcomes for one employee.
type Totals struct {
	EmployeeID                 string
	WorkDays                   int
	AbsentDays                 int
	LateDays                   int
	TotalLateMinutes           int
	TotalEarlyDepartureMinutes int
	TotalOvertimeMinutes       int
	TotalWorkingMinutes        int
}

// Summary is the per-employee monthly read projection.
type Summary struct {
	EmployeeID                 string
	Month                      int
	Year                       int
	PresentDays                int
	LateDays                   int
	AbsentDays                 int
	LeaveDays                  int
	TotalWorkingMinutes        int
	TotalLateMinutes           int
	TotalEarlyDepartureMinutes int
	TotalOvertimeMinutes       int
	SuggestedDeductionReason   string
}

// LeaveOverride shows how an approved leave changes the reported status
// of a day without touching the stored outcome.
type LeaveOverride struct {
	EmployeeID      string
	Date            time.Time
	OnLeave         bool
	StoredStatus    Status
	EffectiveStatus Status
}
