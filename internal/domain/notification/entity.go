package notification

import (
	"time"
)

// EventType represents the kind of state transition being announced
type EventType string

const (
	TypeAttendanceCheckedIn EventType = "attendance_checked_in"
	TypeLedgerBonusAdded    EventType = "ledger_bonus_added"
	TypePayrollGenerated    EventType = "payroll_generated"
	TypePayrollApproved     EventType = "payroll_approved"
	TypePayrollPaid         EventType = "payroll_paid"
)

// AllEventTypes returns all available event types
func AllEventTypes() []EventType {
	return []EventType{
		TypeAttendanceCheckedIn,
		TypeLedgerBonusAdded,
		TypePayrollGenerated,
		TypePayrollApproved,
		TypePayrollPaid,
	}
}

// Event is a fire-and-forget record of a committed state change
type Event struct {
	ID          string
	Type        EventType
	RecipientID string // employee the event concerns
	ActorID     *string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}
