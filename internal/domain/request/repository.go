package request

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// Update writes r when its version still matches and returns it with the
	// bumped version. A stale version yields database.ErrConcurrentModification.
	Update(ctx context.Context, r Request) (Request, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	ListByStatus(ctx context.Context, status Status) ([]Request, error)

	// ListByEmployeeAndRange returns requests whose dates overlap from..to.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
}
