package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

const employeeColumns = `id, name, role, authorities, allowed_absence_days, total_absence_days,
	allowed_late_early_hours, total_late_early_hours, status, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		createdAt, updatedAt string
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.Authorities, &e.AllowedAbsenceDays, &e.TotalAbsenceDays,
		&e.AllowedLateEarlyHours, &e.TotalLateEarlyHours, &e.Status, &e.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
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

	query := `INSERT INTO employees (` + employeeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.store.conn(ctx).ExecContext(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Role, newEmployee.Authorities,
		newEmployee.AllowedAbsenceDays, newEmployee.TotalAbsenceDays,
		newEmployee.AllowedLateEarlyHours.String(), newEmployee.TotalLateEarlyHours.String(),
		newEmployee.Status, newEmployee.Version, formatTime(now), formatTime(now),
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", translateError(err, employee.ErrEmployeeExists))
	}
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	e, err := scanEmployee(r.store.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return e, nil
}

func (r *employeeRepository) UpdateBalance(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	now := time.Now().UTC()
	query := `
		UPDATE employees
		SET total_absence_days = ?, total_late_early_hours = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`
	res, err := r.store.conn(ctx).ExecContext(ctx, query,
		e.TotalAbsenceDays, e.TotalLateEarlyHours.String(), formatTime(now), e.ID, e.Version)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update balance for employee %s: %w", e.ID, translateError(err, nil))
	}
	if n, err := res.RowsAffected(); err != nil {
		return employee.Employee{}, err
	} else if n == 0 {
		return employee.Employee{}, database.ErrConcurrentModification
	}

	e.Version++
	e.UpdatedAt = now
	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status = ? ORDER BY name, id`
	rows, err := r.store.conn(ctx).QueryContext(ctx, query, employee.StatusActive)
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
