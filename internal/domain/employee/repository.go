package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)

	// UpdateBalance persists the ledger fields when the stored version still
	// matches e.Version and returns the employee with the bumped version.
	// A stale version yields database.ErrConcurrentModification.
	UpdateBalance(ctx context.Context, e Employee) (Employee, error)

	ListActive(ctx context.Context) ([]Employee, error)
}
