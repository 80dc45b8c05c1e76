package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, work_date, check_in, check_out, breaks, total_hours,
	late_minutes, overtime_minutes, early_leave_minutes, classification, has_permission,
	absence_authorized, auto_closed, version, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db database.Querier
}

func NewAttendanceRepository(db database.Querier) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.WorkDate, &a.CheckIn, &a.CheckOut, &a.Breaks, &a.TotalHours,
		&a.LateMinutes, &a.OvertimeMinutes, &a.EarlyLeaveMinutes, &a.Classification, &a.HasPermission,
		&a.AbsenceAuthorized, &a.AutoClosed, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.WorkDate = time.Date(a.WorkDate.Year(), a.WorkDate.Month(), a.WorkDate.Day(), 0, 0, 0, 0, time.UTC)
	return a, nil
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
		}
		a.ID = id.String()
	}
	if a.Breaks == nil {
		a.Breaks = attendance.Breaks{}
	}
	now := time.Now().UTC()
	a.Version = 1
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := q.Exec(ctx, query,
		a.ID, a.EmployeeID, a.WorkDate, a.CheckIn, a.CheckOut, a.Breaks, a.TotalHours,
		a.LateMinutes, a.OvertimeMinutes, a.EarlyLeaveMinutes, a.Classification, a.HasPermission,
		a.AbsenceAuthorized, a.AutoClosed, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", translatePgError(err, attendance.ErrAttendanceExists))
	}
	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id %s: %w", id, err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND work_date = $2`
	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for employee %s: %w", employeeID, err)
	}
	return &a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, breaks = $3, total_hours = $4, late_minutes = $5,
			overtime_minutes = $6, early_leave_minutes = $7, classification = $8, has_permission = $9,
			absence_authorized = $10, auto_closed = $11, version = version + 1, updated_at = $12
		WHERE id = $13 AND version = $14
	`
	tag, err := q.Exec(ctx, query,
		a.CheckIn, a.CheckOut, a.Breaks, a.TotalHours, a.LateMinutes,
		a.OvertimeMinutes, a.EarlyLeaveMinutes, a.Classification, a.HasPermission,
		a.AbsenceAuthorized, a.AutoClosed, now, a.ID, a.Version,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance %s: %w", a.ID, translatePgError(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, database.ErrConcurrentModification
	}

	a.Version++
	a.UpdatedAt = now
	return a, nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`
	return r.list(ctx, query, employeeID, from, to)
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_in IS NOT NULL AND check_out IS NULL AND work_date < $1
		ORDER BY work_date, employee_id
	`
	return r.list(ctx, query, date)
}
