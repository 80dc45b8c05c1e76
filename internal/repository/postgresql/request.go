package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, employee_id, type, start_date, end_date, duration_minutes, reason, status,
	granted_days, granted_hours, reviewer_id, reviewed_at, rejection_reason, revoked_by, revoked_at,
	version, created_at, updated_at`

type requestRepositoryImpl struct {
	db database.Querier
}

func NewRequestRepository(db database.Querier) request.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

func scanRequest(row rowScanner) (request.Request, error) {
	var r request.Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.StartDate, &r.EndDate, &r.DurationMinutes, &r.Reason, &r.Status,
		&r.GrantedDays, &r.GrantedHours, &r.ReviewerID, &r.ReviewedAt, &r.RejectionReason, &r.RevokedBy, &r.RevokedAt,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *requestRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Create implements request.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return request.Request{}, fmt.Errorf("generate request id: %w", err)
		}
		req.ID = id.String()
	}
	if req.Status == "" {
		req.Status = request.StatusPending
	}
	now := time.Now().UTC()
	req.Version = 1
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := q.Exec(ctx, query,
		req.ID, req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.DurationMinutes, req.Reason, req.Status,
		req.GrantedDays, req.GrantedHours, req.ReviewerID, req.ReviewedAt, req.RejectionReason, req.RevokedBy, req.RevokedAt,
		req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", translatePgError(err, nil))
	}
	return req, nil
}

// GetByID implements request.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request by id %s: %w", id, err)
	}
	return req, nil
}

// Update implements request.RequestRepository.
func (r *requestRepositoryImpl) Update(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	query := `
		UPDATE requests
		SET status = $1, granted_days = $2, granted_hours = $3, reviewer_id = $4, reviewed_at = $5,
			rejection_reason = $6, revoked_by = $7, revoked_at = $8, version = version + 1, updated_at = $9
		WHERE id = $10 AND version = $11
	`
	tag, err := q.Exec(ctx, query,
		req.Status, req.GrantedDays, req.GrantedHours, req.ReviewerID, req.ReviewedAt,
		req.RejectionReason, req.RevokedBy, req.RevokedAt, now, req.ID, req.Version,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to update request %s: %w", req.ID, translatePgError(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return request.Request{}, database.ErrConcurrentModification
	}

	req.Version++
	req.UpdatedAt = now
	return req, nil
}

// ListByEmployee implements request.RequestRepository.
func (r *requestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE employee_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, employeeID)
}

// ListByStatus implements request.RequestRepository.
func (r *requestRepositoryImpl) ListByStatus(ctx context.Context, status request.Status) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = $1 ORDER BY created_at, id`
	return r.list(ctx, query, status)
}

// ListByEmployeeAndRange implements request.RequestRepository.
func (r *requestRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]request.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE employee_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date, id
	`
	return r.list(ctx, query, employeeID, from, to)
}
