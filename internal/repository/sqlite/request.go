package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

const requestColumns = `id, employee_id, type, start_date, end_date, duration_minutes, reason, status,
	granted_days, granted_hours, reviewer_id, reviewed_at, rejection_reason, revoked_by, revoked_at,
	version, created_at, updated_at`

type requestRepository struct {
	store *Store
}

func NewRequestRepository(store *Store) request.RequestRepository {
	return &requestRepository{store: store}
}

func scanRequest(row rowScanner) (request.Request, error) {
	var (
		r                                 request.Request
		startDate, endDate                string
		reviewerID, reviewedAt, rejection sql.NullString
		revokedBy, revokedAt              sql.NullString
		createdAt, updatedAt              string
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &startDate, &endDate, &r.DurationMinutes, &r.Reason, &r.Status,
		&r.GrantedDays, &r.GrantedHours, &reviewerID, &reviewedAt, &rejection, &revokedBy, &revokedAt,
		&r.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return request.Request{}, err
	}

	if r.StartDate, err = parseDate(startDate); err != nil {
		return request.Request{}, err
	}
	if r.EndDate, err = parseDate(endDate); err != nil {
		return request.Request{}, err
	}
	if r.ReviewedAt, err = parseNullableTime(reviewedAt); err != nil {
		return request.Request{}, err
	}
	if r.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return request.Request{}, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return request.Request{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return request.Request{}, err
	}
	r.ReviewerID = stringPtr(reviewerID)
	r.RejectionReason = stringPtr(rejection)
	r.RevokedBy = stringPtr(revokedBy)
	return r, nil
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]request.Request, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, query, args...)
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

func (r *requestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
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

	query := `INSERT INTO requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.store.conn(ctx).ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.Type, formatDate(req.StartDate), formatDate(req.EndDate), req.DurationMinutes,
		req.Reason, req.Status, req.GrantedDays, req.GrantedHours.String(),
		nullString(req.ReviewerID), formatNullableTime(req.ReviewedAt), nullString(req.RejectionReason),
		nullString(req.RevokedBy), formatNullableTime(req.RevokedAt),
		req.Version, formatTime(now), formatTime(now),
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", translateError(err, nil))
	}
	return req, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`
	req, err := scanRequest(r.store.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request by id %s: %w", id, err)
	}
	return req, nil
}

func (r *requestRepository) Update(ctx context.Context, req request.Request) (request.Request, error) {
	now := time.Now().UTC()
	query := `
		UPDATE requests
		SET status = ?, granted_days = ?, granted_hours = ?, reviewer_id = ?, reviewed_at = ?,
			rejection_reason = ?, revoked_by = ?, revoked_at = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`
	res, err := r.store.conn(ctx).ExecContext(ctx, query,
		req.Status, req.GrantedDays, req.GrantedHours.String(), nullString(req.ReviewerID), formatNullableTime(req.ReviewedAt),
		nullString(req.RejectionReason), nullString(req.RevokedBy), formatNullableTime(req.RevokedAt),
		formatTime(now), req.ID, req.Version,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to update request %s: %w", req.ID, translateError(err, nil))
	}
	if n, err := res.RowsAffected(); err != nil {
		return request.Request{}, err
	} else if n == 0 {
		return request.Request{}, database.ErrConcurrentModification
	}

	req.Version++
	req.UpdatedAt = now
	return req, nil
}

func (r *requestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE employee_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, employeeID)
}

func (r *requestRepository) ListByStatus(ctx context.Context, status request.Status) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = ? ORDER BY created_at, id`
	return r.list(ctx, query, status)
}

func (r *requestRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE employee_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date, id`
	return r.list(ctx, query, employeeID, formatDate(to), formatDate(from))
}
