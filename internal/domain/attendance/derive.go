package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
)

// Apply derives the next outcome for cmd from the current stored outcome.
// current is the zero Outcome (Version 0) when nothing is stored yet.
// expected is only read by check-in and check-out.
func Apply(current Outcome, cmd Command, expected schedule.Expected) (Outcome, error) {
	if cmd == nil {
		return Outcome{}, ErrUnknownCommand
	}
	target := cmd.Target()
	if current.IsNew() {
		current.EmployeeID = target.EmployeeID
		current.Date = target.Date
		current.Status = StatusNotMarked
	}

	next, err := cmd.apply(current, expected)
	if err != nil {
		return Outcome{}, err
	}
	if target.ActorID != "" {
		actor := target.ActorID
		next.UpdatedBy = &actor
	}
	return next, nil
}

func (c CheckIn) apply(o Outcome, expected schedule.Expected) (Outcome, error) {
	if o.CheckIn != nil {
		return Outcome{}, ErrAlreadyCheckedIn
	}

	next := reset(o)
	observed := c.ObservedAt
	next.CheckIn = &observed
	next.IsLate = observed.After(expected.Start)
	next.LateMinutes = startedMinutes(observed.Sub(expected.Start))
	next.Status = StatusPresent
	if next.IsLate {
		next.Status = StatusLate
	}
	next.Location = c.Location
	next.Notes = c.Notes
	return next, nil
}

func (c CheckOut) apply(o Outcome, expected schedule.Expected) (Outcome, error) {
	if o.CheckIn == nil {
		return Outcome{}, ErrNotCheckedIn
	}
	if o.CheckOut != nil {
		return Outcome{}, ErrAlreadyCheckedOut
	}

	observed := c.ObservedAt
	o.CheckOut = &observed
	o.EarlyDepartureMinutes = startedMinutes(expected.End.Sub(observed)) + o.ManualEarlyDepartureMinutes
	o.IsEarlyDeparture = o.EarlyDepartureMinutes > 0
	o.OvertimeMinutes = 0
	if !o.IsEarlyDeparture {
		o.OvertimeMinutes = wholeMinutes(observed.Sub(expected.End))
	}
	if c.Notes != nil {
		o.Notes = appendNote(o.Notes, *c.Notes)
	}
	o.WorkingMinutes = workingMinutes(o)
	return o, nil
}

func (c MarkAbsent) apply(o Outcome, _ schedule.Expected) (Outcome, error) {
	next := reset(o)
	next.Status = StatusAbsent
	if reason := strings.TrimSpace(c.Reason); reason != "" {
		next.Notes = &reason
	}
	return next, nil
}

func (c AddLatency) apply(o Outcome, _ schedule.Expected) (Outcome, error) {
	if err := requireCorrectable(o, c.Minutes); err != nil {
		return Outcome{}, err
	}
	o.LateMinutes += c.Minutes
	o.IsLate = true
	if o.Status == StatusPresent {
		o.Status = StatusLate
	}
	o.Notes = appendNote(o.Notes, correctionNote("latency", c.Minutes, c.Reason))
	o.WorkingMinutes = workingMinutes(o)
	return o, nil
}

// An early departure cancels any overtime recorded for the day. The
// minutes are kept apart so a later check-out adds to them.
func (c AddEarlyDeparture) apply(o Outcome, _ schedule.Expected) (Outcome, error) {
	if err := requireCorrectable(o, c.Minutes); err != nil {
		return Outcome{}, err
	}
	o.ManualEarlyDepartureMinutes += c.Minutes
	o.EarlyDepartureMinutes += c.Minutes
	o.IsEarlyDeparture = true
	o.OvertimeMinutes = 0
	o.Notes = appendNote(o.Notes, correctionNote("early departure", c.Minutes, c.Reason))
	o.WorkingMinutes = workingMinutes(o)
	return o, nil
}

func (c AddBreak) apply(o Outcome, _ schedule.Expected) (Outcome, error) {
	if err := requireCorrectable(o, c.Minutes); err != nil {
		return Outcome{}, err
	}
	o.BreakMinutes += c.Minutes
	o.Notes = appendNote(o.Notes, correctionNote("break", c.Minutes, c.Reason))
	o.WorkingMinutes = workingMinutes(o)
	return o, nil
}

func requireCorrectable(o Outcome, minutes int) error {
	if minutes <= 0 {
		return ErrInvalidMinutes
	}
	if o.CheckIn == nil {
		return ErrNotCheckedIn
	}
	return nil
}

// reset clears every derived field but keeps identity and version.
func reset(o Outcome) Outcome {
	return Outcome{
		ID:         o.ID,
		EmployeeID: o.EmployeeID,
		Date:       o.Date,
		Status:     StatusNotMarked,
		Version:    o.Version,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// workingMinutes is (checkOut - checkIn) - break, floored at zero. A
// check-out recorded before the check-in yields zero.
func workingMinutes(o Outcome) int {
	if o.CheckIn == nil || o.CheckOut == nil {
		return 0
	}
	return max(0, wholeMinutes(o.CheckOut.Sub(*o.CheckIn))-o.BreakMinutes)
}

// wholeMinutes truncates d to whole minutes, clamped at zero.
func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Minutes()))
}

// startedMinutes counts every started minute of d, so 40s late is 1 minute.
func startedMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

func correctionNote(kind string, minutes int, reason string) string {
	note := fmt.Sprintf("+%d min %s", minutes, kind)
	if reason = strings.TrimSpace(reason); reason != "" {
		note += ": " + reason
	}
	return note
}

func appendNote(notes *string, note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return notes
	}
	if notes == nil || *notes == "" {
		return &note
	}
	joined := *notes + "; " + note
	return &joined
}

// EffectiveStatus applies leave precedence: an approved leave hides an
// absent or unmarked day.
func EffectiveStatus(stored Status, onLeave bool) Status {
	if onLeave && (stored == StatusAbsent || stored == StatusNotMarked || stored == "") {
		return StatusOnLeave
	}
	if stored == "" {
		return StatusNotMarked
	}
	return stored
}

// Summarize folds a month of outcomes and approved leave dates into a Summary.
func Summarize(employeeID string, month, year int, outcomes []Outcome, leaveDates []time.Time) Summary {
	s := Summary{EmployeeID: employeeID, Month: month, Year: year}

	onLeave := make(map[string]bool, len(leaveDates))
	for _, d := range leaveDates {
		onLeave[dateKey(d)] = true
	}
	seen := make(map[string]bool, len(outcomes))

	for _, o := range outcomes {
		key := dateKey(o.Date)
		seen[key] = true

		switch EffectiveStatus(o.Status, onLeave[key]) {
		case StatusPresent:
			s.PresentDays++
		case StatusLate:
			s.PresentDays++
			s.LateDays++
		case StatusAbsent:
			s.AbsentDays++
		case StatusOnLeave:
			s.LeaveDays++
		}

		s.TotalWorkingMinutes += o.WorkingMinutes
		s.TotalLateMinutes += o.LateMinutes
		s.TotalEarlyDepartureMinutes += o.EarlyDepartureMinutes
		s.TotalOvertimeMinutes += o.OvertimeMinutes
	}

	for key := range onLeave {
		if !seen[key] {
			s.LeaveDays++
		}
	}

	s.SuggestedDeductionReason = deductionReason(s)
	return s
}

func deductionReason(s Summary) string {
	var parts []string
	if s.AbsentDays > 0 {
		parts = append(parts, fmt.Sprintf("%d absent day(s)", s.AbsentDays))
	}
	if s.LateDays > 0 {
		parts = append(parts, fmt.Sprintf("%d late day(s) totalling %d minutes", s.LateDays, s.TotalLateMinutes))
	}
	if s.TotalEarlyDepartureMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes early departure", s.TotalEarlyDepartureMinutes))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("Attendance %02d/%d: %s", s.Month, s.Year, strings.Join(parts, ", "))
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
