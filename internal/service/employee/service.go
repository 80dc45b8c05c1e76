package employee

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// loadVisible returns the employee with the given id when the actor may see
// it: themselves, or anyone when the actor holds View All Balances.
func (s *EmployeeServiceImpl) loadVisible(ctx context.Context, actorID, id string) (employee.Employee, error) {
	if id == "" {
		id = actorID
	}

	actor, err := s.employeeRepo.GetByID(ctx, actorID)
	if err != nil {
		return employee.Employee{}, err
	}
	if id == actorID {
		return actor, nil
	}
	if err := employee.Require(actor, employee.AuthorityViewAllBalances); err != nil {
		return employee.Employee{}, err
	}
	return s.employeeRepo.GetByID(ctx, id)
}

// GetBalanceSnapshot implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetBalanceSnapshot(ctx context.Context, actorID, employeeID string) (employee.BalanceResponse, error) {
	e, err := s.loadVisible(ctx, actorID, employeeID)
	if err != nil {
		return employee.BalanceResponse{}, err
	}
	return employee.NewBalanceResponse(e), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, actorID, id string) (employee.EmployeeResponse, error) {
	e, err := s.loadVisible(ctx, actorID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, actorID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := s.employeeRepo.GetByID(ctx, actorID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := employee.Require(actor, employee.AuthorityManageEmployees); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:                  req.Name,
		Role:                  req.ParsedRole,
		Authorities:           req.ParsedAuthorities,
		AllowedAbsenceDays:    req.AllowedAbsenceDays,
		AllowedLateEarlyHours: req.ParsedAllowedLateEarlyHours,
		Status:                employee.StatusActive,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "role", created.Role, "created_by", actor.ID)
	return employee.NewEmployeeResponse(created), nil
}
