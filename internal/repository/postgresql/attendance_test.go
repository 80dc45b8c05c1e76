package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceColumnNames = []string{
	"id", "employee_id", "work_date", "check_in", "check_out", "breaks", "total_hours",
	"late_minutes", "overtime_minutes", "early_leave_minutes", "classification", "has_permission",
	"absence_authorized", "auto_closed", "version", "created_at", "updated_at",
}

func TestAttendanceRepository_GetByEmployeeAndDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(8*time.Hour + 15*time.Minute)
	checkOut := day.Add(16*time.Hour + 30*time.Minute)

	rows := pgxmock.NewRows(attendanceColumnNames).
		AddRow("att-1", "emp-1", day, &checkIn, &checkOut,
			`[{"start":"2025-03-10T12:00:00Z","end":"2025-03-10T12:30:00Z"}]`, "7.75",
			15, 30, 0, attendance.ClassificationLate, false, false, false, int64(4), day, day)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendances WHERE employee_id = $1 AND work_date = $2")).
		WithArgs("emp-1", day).
		WillReturnRows(rows)

	a, err := repo.GetByEmployeeAndDate(context.Background(), "emp-1", day)

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, attendance.StateCheckedOut, a.State())
	assert.Equal(t, attendance.ClassificationLate, a.Classification)
	require.Len(t, a.Breaks, 1)
	assert.Equal(t, 30*time.Minute, a.Breaks.Total(checkOut))
	assert.True(t, decimal.RequireFromString("7.75").Equal(a.TotalHours))
	assert.Equal(t, 30, a.OvertimeMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_GetByEmployeeAndDate_None(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendances WHERE employee_id = $1")).
		WithArgs("emp-1", day).
		WillReturnError(pgx.ErrNoRows)

	a, err := repo.GetByEmployeeAndDate(context.Background(), "emp-1", day)

	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, attendance.StateNotStarted, a.State())
}

func TestAttendanceRepository_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendances")).
		WithArgs(anyArgs(17)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "uq_attendances_employee_date"})

	_, err = repo.Create(context.Background(), attendance.Attendance{EmployeeID: "emp-1", WorkDate: time.Now().UTC()})

	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	a := attendance.Attendance{ID: "att-1", EmployeeID: "emp-1", Classification: attendance.ClassificationPresent, Version: 1}

	args := append(anyArgs(12), "att-1", int64(1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendances")).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendances")).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.Update(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.Update(context.Background(), a)
	assert.ErrorIs(t, err, database.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_ListOpenBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	today := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	checkIn := yesterday.Add(8 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE check_in IS NOT NULL AND check_out IS NULL AND work_date < $1")).
		WithArgs(today).
		WillReturnRows(pgxmock.NewRows(attendanceColumnNames).
			AddRow("att-1", "emp-1", yesterday, &checkIn, (*time.Time)(nil), `[]`, "0",
				0, 0, 0, attendance.ClassificationPresent, false, false, false, int64(1), yesterday, yesterday))

	open, err := repo.ListOpenBefore(context.Background(), today)

	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, attendance.StateCheckedIn, open[0].State())
	assert.NoError(t, mock.ExpectationsWereMet())
}
