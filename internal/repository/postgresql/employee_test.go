package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeColumnNames = []string{
	"id", "name", "role", "authorities", "allowed_absence_days", "total_absence_days",
	"allowed_late_early_hours", "total_late_early_hours", "status", "version", "created_at", "updated_at",
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(employeeColumnNames).
		AddRow("emp-1", "Sari", employee.RoleManager, `["Submit Requests"]`, 20, 4,
			"10.00", "2.50", employee.StatusActive, int64(3), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("emp-1").
		WillReturnRows(rows)

	e, err := repo.GetByID(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Equal(t, "Sari", e.Name)
	assert.Equal(t, employee.RoleManager, e.Role)
	assert.Equal(t, employee.Authorities{employee.AuthoritySubmitRequests}, e.Authorities)
	assert.Equal(t, 16, e.RemainingAbsenceDays())
	assert.True(t, decimal.RequireFromString("7.5").Equal(e.RemainingLateEarlyHours()))
	assert.Equal(t, int64(3), e.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WithArgs(pgxmock.AnyArg(), "Budi", employee.RoleEmployee, pgxmock.AnyArg(), 12, 0,
			pgxmock.AnyArg(), pgxmock.AnyArg(), employee.StatusActive, int64(1), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), employee.Employee{
		Name:                  "Budi",
		Role:                  employee.RoleEmployee,
		AllowedAbsenceDays:    12,
		AllowedLateEarlyHours: decimal.NewFromInt(8),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, employee.StatusActive, created.Status)
	assert.Equal(t, int64(1), created.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_pkey"})

	_, err = repo.Create(context.Background(), employee.Employee{ID: "emp-1", Name: "Budi", Role: employee.RoleEmployee})

	assert.ErrorIs(t, err, employee.ErrEmployeeExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	e := employee.Employee{ID: "emp-1", TotalAbsenceDays: 5, TotalLateEarlyHours: decimal.NewFromInt(1), Version: 2}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
		WithArgs(5, pgxmock.AnyArg(), pgxmock.AnyArg(), "emp-1", int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := repo.UpdateBalance(context.Background(), e)

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UpdateBalance_StaleVersion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
		WithArgs(5, pgxmock.AnyArg(), pgxmock.AnyArg(), "emp-1", int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err = repo.UpdateBalance(context.Background(), employee.Employee{ID: "emp-1", TotalAbsenceDays: 5, Version: 2})

	assert.ErrorIs(t, err, database.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UsesContextTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	tm := NewTransactionManager(mock)
	now := time.Now().UTC()

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE status = $1")).
		WithArgs(employee.StatusActive).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow("emp-1", "Ana", employee.RoleEmployee, `[]`, 10, 0, "0", "0", employee.StatusActive, int64(1), now, now).
			AddRow("emp-2", "Budi", employee.RoleAdmin, `["View Audit Trail"]`, 10, 0, "0", "0", employee.StatusActive, int64(1), now, now))
	mock.ExpectCommit()

	var employees []employee.Employee
	err = tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
		var err error
		employees, err = repo.ListActive(ctx)
		return err
	})

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Empty(t, employees[0].Authorities)
	assert.NotNil(t, employees[0].Authorities)
	assert.Equal(t, "Budi", employees[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
