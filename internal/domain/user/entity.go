package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // HR manager - runs attendance and payroll
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Actor is the identity supplied by the authentication layer. The core
// records ActorID in audit fields and performs no checks of its own.
type Actor struct {
	UserID     string
	EmployeeID *string
	Role       Role
}
