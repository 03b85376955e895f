package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns active employees in scope, ordered by employee code.
	ListActive(ctx context.Context, scope Scope) ([]Employee, error)
}
