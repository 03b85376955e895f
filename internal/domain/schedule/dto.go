package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type ResolveRequest struct {
	EmployeeID string
	Date       string
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type ExpectedScheduleResponse struct {
	EmployeeID      string    `json:"employee_id"`
	Date            string    `json:"date"`
	ExpectedStart   time.Time `json:"expected_start"`
	ExpectedEnd     time.Time `json:"expected_end"`
	StandardMinutes int       `json:"standard_minutes"`
	Source          Source    `json:"source"`
	AssignmentID    *string   `json:"assignment_id,omitempty"`
}

func ToExpectedScheduleResponse(e Expected) ExpectedScheduleResponse {
	return ExpectedScheduleResponse{
		EmployeeID:      e.EmployeeID,
		Date:            e.Date.Format("2006-01-02"),
		ExpectedStart:   e.Start,
		ExpectedEnd:     e.End,
		StandardMinutes: e.StandardMinutes,
		Source:          e.Source,
		AssignmentID:    e.AssignmentID,
	}
}
