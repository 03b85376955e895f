package attendance

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========== COMMAND REQUESTS ==========

type CheckInRequest struct {
	EmployeeID      string  `json:"employee_id"`
	Date            *string `json:"date,omitempty"` // defaults to the local date of observed_at
	ObservedAt      string  `json:"observed_at"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	ExpectedVersion *int    `json:"expected_version,omitempty"`
	ActorID         string  `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmployee(&errs, r.EmployeeID)
	validateObserved(&errs, r.ObservedAt)
	if r.Date != nil {
		validateDate(&errs, *r.Date)
	}
	validateVersion(&errs, r.ExpectedVersion)
	return errs.Err()
}

func (r *CheckInRequest) ToCommand(loc *time.Location) (Command, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	observed, _ := validator.IsValidDateTime(r.ObservedAt)
	return CheckIn{
		At:         r.target(loc, observed),
		ObservedAt: observed,
		Location:   r.Location,
		Notes:      r.Notes,
	}, nil
}

func (r *CheckInRequest) target(loc *time.Location, observed time.Time) Target {
	return Target{
		EmployeeID:      r.EmployeeID,
		Date:            resolveDate(r.Date, observed, loc),
		ExpectedVersion: r.ExpectedVersion,
		ActorID:         r.ActorID,
	}
}

type CheckOutRequest struct {
	EmployeeID      string  `json:"employee_id"`
	Date            *string `json:"date,omitempty"`
	ObservedAt      string  `json:"observed_at"`
	Notes           *string `json:"notes,omitempty"`
	ExpectedVersion *int    `json:"expected_version,omitempty"`
	ActorID         string  `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmployee(&errs, r.EmployeeID)
	validateObserved(&errs, r.ObservedAt)
	if r.Date != nil {
		validateDate(&errs, *r.Date)
	}
	validateVersion(&errs, r.ExpectedVersion)
	return errs.Err()
}

// ToCommand builds a CheckOut. Night shifts should pass the shift's start
// date explicitly, since observed_at falls on the following day.
func (r *CheckOutRequest) ToCommand(loc *time.Location) (Command, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	observed, _ := validator.IsValidDateTime(r.ObservedAt)
	return CheckOut{
		At: Target{
			EmployeeID:      r.EmployeeID,
			Date:            resolveDate(r.Date, observed, loc),
			ExpectedVersion: r.ExpectedVersion,
			ActorID:         r.ActorID,
		},
		ObservedAt: observed,
		Notes:      r.Notes,
	}, nil
}

type MarkAbsentRequest struct {
	EmployeeID      string `json:"employee_id"`
	Date            string `json:"date"`
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	ActorID         string `json:"-"`
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmployee(&errs, r.EmployeeID)
	validateDate(&errs, r.Date)
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}
	validateVersion(&errs, r.ExpectedVersion)
	return errs.Err()
}

func (r *MarkAbsentRequest) ToCommand(loc *time.Location) (Command, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	date, _ := validator.ParseDateIn(r.Date, loc)
	return MarkAbsent{
		At:     Target{EmployeeID: r.EmployeeID, Date: date, ExpectedVersion: r.ExpectedVersion, ActorID: r.ActorID},
		Reason: r.Reason,
	}, nil
}

// CorrectionRequest carries add-latency, add-early-departure and add-break.
type CorrectionRequest struct {
	Kind            CommandKind `json:"-"`
	EmployeeID      string      `json:"employee_id"`
	Date            string      `json:"date"`
	Minutes         int         `json:"minutes"`
	Reason          string      `json:"reason"`
	ExpectedVersion *int        `json:"expected_version,omitempty"`
	ActorID         string      `json:"-"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors
	switch r.Kind {
	case KindAddLatency, KindAddEarlyDeparture, KindAddBreak:
	default:
		errs.Add("type", "must be one of add_latency, add_early_departure, add_break")
	}
	validateEmployee(&errs, r.EmployeeID)
	validateDate(&errs, r.Date)
	if r.Minutes <= 0 {
		errs.Add("minutes", "must be greater than 0")
	} else if r.Minutes > 24*60 {
		errs.Add("minutes", "must not exceed one day")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}
	validateVersion(&errs, r.ExpectedVersion)
	return errs.Err()
}

func (r *CorrectionRequest) ToCommand(loc *time.Location) (Command, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	date, _ := validator.ParseDateIn(r.Date, loc)
	target := Target{EmployeeID: r.EmployeeID, Date: date, ExpectedVersion: r.ExpectedVersion, ActorID: r.ActorID}

	switch r.Kind {
	case KindAddLatency:
		return AddLatency{At: target, Minutes: r.Minutes, Reason: r.Reason}, nil
	case KindAddEarlyDeparture:
		return AddEarlyDeparture{At: target, Minutes: r.Minutes, Reason: r.Reason}, nil
	default:
		return AddBreak{At: target, Minutes: r.Minutes, Reason: r.Reason}, nil
	}
}

// CommandRequest is the tagged envelope accepted by the generic command
// endpoint: {"type": "check_in", "payload": {...}}.
type CommandRequest struct {
	Type    CommandKind     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeCommand validates the envelope and builds the matching Command.
func DecodeCommand(req CommandRequest, loc *time.Location, actorID string) (Command, error) {
	if len(req.Payload) == 0 {
		return nil, validator.ValidationErrors{{Field: "payload", Message: "is required"}}
	}
	invalidPayload := validator.ValidationErrors{{Field: "payload", Message: "is not valid JSON for type " + string(req.Type)}}

	switch req.Type {
	case KindCheckIn:
		var r CheckInRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, invalidPayload
		}
		r.ActorID = actorID
		return r.ToCommand(loc)
	case KindCheckOut:
		var r CheckOutRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, invalidPayload
		}
		r.ActorID = actorID
		return r.ToCommand(loc)
	case KindMarkAbsent:
		var r MarkAbsentRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, invalidPayload
		}
		r.ActorID = actorID
		return r.ToCommand(loc)
	case KindAddLatency, KindAddEarlyDeparture, KindAddBreak:
		var r CorrectionRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, invalidPayload
		}
		r.Kind = req.Type
		r.ActorID = actorID
		return r.ToCommand(loc)
	default:
		return nil, validator.ValidationErrors{{Field: "type", Message: "unknown attendance command type"}}
	}
}

// ========== QUERY REQUESTS ==========

type ListOutcomesRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r *ListOutcomesRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmployee(&errs, r.EmployeeID)
	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs.Add("from", "must be in YYYY-MM-DD format")
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs.Add("to", "must be in YYYY-MM-DD format")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("to", "must not be before from")
		} else if to.Sub(from) > 366*24*time.Hour {
			errs.Add("to", "range must not exceed one year")
		}
	}
	return errs.Err()
}

type SummaryRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	validateEmployee(&errs, r.EmployeeID)
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be between 1 and 12")
	}
	if !validator.IsValidYear(r.Year) {
		errs.Add("year", "must be a four-digit year")
	}
	return errs.Err()
}

// ========== RESPONSES ==========

type OutcomeResponse struct {
	ID                    string     `json:"id"`
	EmployeeID            string     `json:"employee_id"`
	Date                  string     `json:"date"`
	CheckIn               *time.Time `json:"check_in,omitempty"`
	CheckOut              *time.Time `json:"check_out,omitempty"`
	Status                Status     `json:"status"`
	IsLate                bool       `json:"is_late"`
	LateMinutes           int        `json:"late_minutes"`
	IsEarlyDeparture      bool       `json:"is_early_departure"`
	EarlyDepartureMinutes int        `json:"early_departure_minutes"`
	OvertimeMinutes       int        `json:"overtime_minutes"`
	BreakMinutes          int        `json:"break_minutes"`
	WorkingMinutes        int        `json:"working_minutes"`
	Location              *string    `json:"location,omitempty"`
	Notes                 *string    `json:"notes,omitempty"`
	Version               int        `json:"version"`
	UpdatedBy             *string    `json:"updated_by,omitempty"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func ToOutcomeResponse(o Outcome) OutcomeResponse {
	return OutcomeResponse{
		ID:                    o.ID,
		EmployeeID:            o.EmployeeID,
		Date:                  o.Date.Format("2006-01-02"),
		CheckIn:               o.CheckIn,
		CheckOut:              o.CheckOut,
		Status:                o.Status,
		IsLate:                o.IsLate,
		LateMinutes:           o.LateMinutes,
		IsEarlyDeparture:      o.IsEarlyDeparture,
		EarlyDepartureMinutes: o.EarlyDepartureMinutes,
		OvertimeMinutes:       o.OvertimeMinutes,
		BreakMinutes:          o.BreakMinutes,
		WorkingMinutes:        o.WorkingMinutes,
		Location:              o.Location,
		Notes:                 o.Notes,
		Version:               o.Version,
		UpdatedBy:             o.UpdatedBy,
		UpdatedAt:             o.UpdatedAt,
	}
}

type SummaryResponse struct {
	EmployeeID                 string `json:"employee_id"`
	Month                      int    `json:"month"`
	Year                       int    `json:"year"`
	PresentDays                int    `json:"present_days"`
	LateDays                   int    `json:"late_days"`
	AbsentDays                 int    `json:"absent_days"`
	LeaveDays                  int    `json:"leave_days"`
	TotalWorkingMinutes        int    `json:"total_working_minutes"`
	TotalLateMinutes           int    `json:"total_late_minutes"`
	TotalEarlyDepartureMinutes int    `json:"total_early_departure_minutes"`
	TotalOvertimeMinutes       int    `json:"total_overtime_minutes"`
	SuggestedDeductionReason   string `json:"suggested_deduction_reason,omitempty"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse(s)
}

type LeaveOverrideResponse struct {
	EmployeeID      string `json:"employee_id"`
	Date            string `json:"date"`
	OnLeave         bool   `json:"on_leave"`
	StoredStatus    Status `json:"stored_status"`
	EffectiveStatus Status `json:"effective_status"`
}

func ToLeaveOverrideResponse(l LeaveOverride) LeaveOverrideResponse {
	return LeaveOverrideResponse{
		EmployeeID:      l.EmployeeID,
		Date:            l.Date.Format("2006-01-02"),
		OnLeave:         l.OnLeave,
		StoredStatus:    l.StoredStatus,
		EffectiveStatus: l.EffectiveStatus,
	}
}

// ========== HELPERS ==========

func validateEmployee(errs *validator.ValidationErrors, employeeID string) {
	if validator.IsEmpty(employeeID) {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(employeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
}

func validateObserved(errs *validator.ValidationErrors, observed string) {
	if validator.IsEmpty(observed) {
		errs.Add("observed_at", "is required")
	} else if _, ok := validator.IsValidDateTime(observed); !ok {
		errs.Add("observed_at", "must be an RFC3339 timestamp")
	}
}

func validateDate(errs *validator.ValidationErrors, date string) {
	if _, ok := validator.IsValidDate(date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
}

func validateVersion(errs *validator.ValidationErrors, v *int) {
	if v != nil && *v < 0 {
		errs.Add("expected_version", "must not be negative")
	}
}

func resolveDate(date *string, observed time.Time, loc *time.Location) time.Time {
	if date != nil {
		d, _ := validator.ParseDateIn(*date, loc)
		return d
	}
	o := observed.In(loc)
	return time.Date(o.Year(), o.Month(), o.Day(), 0, 0, 0, 0, loc)
}
