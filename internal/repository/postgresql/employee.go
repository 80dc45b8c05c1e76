package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, role, authorities, allowed_absence_days, total_absence_days,
	allowed_late_early_hours, total_late_early_hours, status, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type employeeRepositoryImpl struct {
	db database.Querier
}

func NewEmployeeRepository(db database.Querier) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.Authorities, &e.AllowedAbsenceDays, &e.TotalAbsenceDays,
		&e.AllowedLateEarlyHours, &e.TotalLateEarlyHours, &e.Status, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}
	if newEmployee.Status == "" {
		newEmployee.Status = employee.StatusActive
	}
	now := time.Now().UTC()
	newEmployee.Version = 1
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.Exec(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Role, newEmployee.Authorities,
		newEmployee.AllowedAbsenceDays, newEmployee.TotalAbsenceDays,
		newEmployee.AllowedLateEarlyHours, newEmployee.TotalLateEarlyHours,
		newEmployee.Status, newEmployee.Version, newEmployee.CreatedAt, newEmployee.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", translatePgError(err, employee.ErrEmployeeExists))
	}
	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return e, nil
}

// UpdateBalance implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateBalance(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	query := `
		UPDATE employees
		SET total_absence_days = $1, total_late_early_hours = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
	`
	tag, err := q.Exec(ctx, query, e.TotalAbsenceDays, e.TotalLateEarlyHours, now, e.ID, e.Version)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update balance for employee %s: %w", e.ID, translatePgError(err, nil))
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, database.ErrConcurrentModification
	}

	e.Version++
	e.UpdatedAt = now
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status = $1 ORDER BY name, id`
	rows, err := q.Query(ctx, query, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
