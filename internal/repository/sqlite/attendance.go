package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

const attendanceColumns = `id, employee_id, work_date, check_in, check_out, breaks, total_hours,
	late_minutes, overtime_minutes, early_leave_minutes, classification, has_permission,
	absence_authorized, auto_closed, version, created_at, updated_at`

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		a                    attendance.Attendance
		workDate             string
		checkIn, checkOut    sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &workDate, &checkIn, &checkOut, &a.Breaks, &a.TotalHours,
		&a.LateMinutes, &a.OvertimeMinutes, &a.EarlyLeaveMinutes, &a.Classification, &a.HasPermission,
		&a.AbsenceAuthorized, &a.AutoClosed, &a.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if a.WorkDate, err = parseDate(workDate); err != nil {
		return attendance.Attendance{}, err
	}
	if a.CheckIn, err = parseNullableTime(checkIn); err != nil {
		return attendance.Attendance{}, err
	}
	if a.CheckOut, err = parseNullableTime(checkOut); err != nil {
		return attendance.Attendance{}, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.Attendance{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

func (r *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, query, args...)
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

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
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

	query := `INSERT INTO attendances (` + attendanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.store.conn(ctx).ExecContext(ctx, query,
		a.ID, a.EmployeeID, formatDate(a.WorkDate), formatNullableTime(a.CheckIn), formatNullableTime(a.CheckOut),
		a.Breaks, a.TotalHours.String(), a.LateMinutes, a.OvertimeMinutes, a.EarlyLeaveMinutes,
		a.Classification, a.HasPermission, a.AbsenceAuthorized, a.AutoClosed, a.Version,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", translateError(err, attendance.ErrAttendanceExists))
	}
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = ?`
	a, err := scanAttendance(r.store.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id %s: %w", id, err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = ? AND work_date = ?`
	a, err := scanAttendance(r.store.conn(ctx).QueryRowContext(ctx, query, employeeID, formatDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for employee %s: %w", employeeID, err)
	}
	return &a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now().UTC()
	query := `
		UPDATE attendances
		SET check_in = ?, check_out = ?, breaks = ?, total_hours = ?, late_minutes = ?,
			overtime_minutes = ?, early_leave_minutes = ?, classification = ?, has_permission = ?,
			absence_authorized = ?, auto_closed = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`
	res, err := r.store.conn(ctx).ExecContext(ctx, query,
		formatNullableTime(a.CheckIn), formatNullableTime(a.CheckOut), a.Breaks, a.TotalHours.String(), a.LateMinutes,
		a.OvertimeMinutes, a.EarlyLeaveMinutes, a.Classification, a.HasPermission,
		a.AbsenceAuthorized, a.AutoClosed, formatTime(now), a.ID, a.Version,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance %s: %w", a.ID, translateError(err, nil))
	}
	if n, err := res.RowsAffected(); err != nil {
		return attendance.Attendance{}, err
	} else if n == 0 {
		return attendance.Attendance{}, database.ErrConcurrentModification
	}

	a.Version++
	a.UpdatedAt = now
	return a, nil
}

func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances
		WHERE employee_id = ? AND work_date BETWEEN ? AND ?
		ORDER BY work_date`
	return r.list(ctx, query, employeeID, formatDate(from), formatDate(to))
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances
		WHERE check_in IS NOT NULL AND check_out IS NULL AND work_date < ?
		ORDER BY work_date, employee_id`
	return r.list(ctx, query, formatDate(date))
}
