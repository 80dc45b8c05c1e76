package employee

import (
	"context"
)

// EmployeeService defines business logic for employee records and balances
type EmployeeService interface {
	// GetBalanceSnapshot returns the ledger of employeeID (self, or holders of View All Balances)
	GetBalanceSnapshot(ctx context.Context, actorID, employeeID string) (BalanceResponse, error)

	// GetEmployee retrieves a single employee (self, or holders of View All Balances)
	GetEmployee(ctx context.Context, actorID, id string) (EmployeeResponse, error)

	// CreateEmployee provisions an employee record (Manage Employees only)
	CreateEmployee(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)
}
