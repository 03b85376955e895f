package employee

import "time"

// Employee is the read model the payroll pipeline needs. HR owns the
// full employee record; this core never writes it.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	DepartmentID     *string
	BaseSalary       int64 // minor currency units
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// Scope selects the employees a batch operation applies to. An empty
// scope means every active employee; EmployeeIDs wins over DepartmentID.
type Scope struct {
	EmployeeIDs  []string `json:"employee_ids,omitempty"`
	DepartmentID *string  `json:"department_id,omitempty"`
}

func (s Scope) IsAll() bool {
	return len(s.EmployeeIDs) == 0 && s.DepartmentID == nil
}
