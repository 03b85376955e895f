package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
)

type CommandKind string

const (
	KindCheckIn           CommandKind = "check_in"
	KindCheckOut          CommandKind = "check_out"
	KindMarkAbsent        CommandKind = "mark_absent"
	KindAddLatency        CommandKind = "add_latency"
	KindAddEarlyDeparture CommandKind = "add_early_departure"
	KindAddBreak          CommandKind = "add_break"
)

// Target identifies the outcome a command writes to. ExpectedVersion, when
// set, must equal the stored version or the write is rejected.
type Target struct {
	EmployeeID      string
	Date            time.Time
	ExpectedVersion *int
	ActorID         string
}

// Command is the closed set of attendance mutations. Only the types in this
// file implement it.
type Command interface {
	Target() Target
	Kind() CommandKind
	apply(current Outcome, expected schedule.Expected) (Outcome, error)
}

type CheckIn struct {
	At         Target
	ObservedAt time.Time
	Location   *string
	Notes      *string
}

type CheckOut struct {
	At         Target
	ObservedAt time.Time
	Notes      *string
}

type MarkAbsent struct {
	At     Target
	Reason string
}

type AddLatency struct {
	At      Target
	Minutes int
	Reason  string
}

type AddEarlyDeparture struct {
	At      Target
	Minutes int
	Reason  string
}

type AddBreak struct {
	At      Target
	Minutes int
	Reason  string
}

func (c CheckIn) Target() Target           { return c.At }
func (c CheckOut) Target() Target          { return c.At }
func (c MarkAbsent) Target() Target        { return c.At }
func (c AddLatency) Target() Target        { return c.At }
func (c AddEarlyDeparture) Target() Target { return c.At }
func (c AddBreak) Target() Target          { return c.At }

func (CheckIn) Kind() CommandKind           { return KindCheckIn }
func (CheckOut) Kind() CommandKind          { return KindCheckOut }
func (MarkAbsent) Kind() CommandKind        { return KindMarkAbsent }
func (AddLatency) Kind() CommandKind        { return KindAddLatency }
func (AddEarlyDeparture) Kind() CommandKind { return KindAddEarlyDeparture }
func (AddBreak) Kind() CommandKind          { return KindAddBreak }

// NeedsSchedule reports whether applying cmd compares against the expected shift.
func NeedsSchedule(cmd Command) bool {
	switch cmd.(type) {
	case CheckIn, CheckOut:
		return true
	default:
		return false
	}
}
