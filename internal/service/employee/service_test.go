package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (employee.EmployeeService, employee.EmployeeRepository) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := sqlite.NewEmployeeRepository(store)
	return NewEmployeeService(repo), repo
}

func seed(t *testing.T, repo employee.EmployeeRepository, name string, role employee.Role) employee.Employee {
	t.Helper()
	e, err := repo.Create(context.Background(), employee.Employee{
		Name:                  name,
		Role:                  role,
		AllowedAbsenceDays:    20,
		TotalAbsenceDays:      4,
		AllowedLateEarlyHours: decimal.NewFromInt(10),
		TotalLateEarlyHours:   decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)
	return e
}

func TestGetBalanceSnapshot(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	emp := seed(t, repo, "Ana", employee.RoleEmployee)
	peer := seed(t, repo, "Budi", employee.RoleEmployee)
	mgr := seed(t, repo, "Sari", employee.RoleManager)

	own, err := svc.GetBalanceSnapshot(ctx, emp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, employee.BalanceResponse{
		EmployeeID:              emp.ID,
		AllowedAbsenceDays:      20,
		TotalAbsenceDays:        4,
		RemainingAbsenceDays:    16,
		AllowedLateEarlyHours:   "10.00",
		TotalLateEarlyHours:     "2.50",
		RemainingLateEarlyHours: "7.50",
	}, own)

	_, err = svc.GetBalanceSnapshot(ctx, peer.ID, emp.ID)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	viewed, err := svc.GetBalanceSnapshot(ctx, mgr.ID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, own, viewed)

	_, err = svc.GetBalanceSnapshot(ctx, mgr.ID, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetEmployee_EffectiveAuthorities(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	emp := seed(t, repo, "Ana", employee.RoleEmployee)

	got, err := svc.GetEmployee(ctx, emp.ID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.RoleAuthorities[employee.RoleEmployee], got.Authorities)
	assert.Equal(t, "7.50", got.RemainingLateEarlyHours)
}

func TestCreateEmployee(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	admin := seed(t, repo, "Root", employee.RoleAdmin)
	mgr := seed(t, repo, "Sari", employee.RoleManager)

	req := employee.CreateEmployeeRequest{
		Name:                  "Citra",
		Role:                  "MANAGER",
		Authorities:           []string{string(employee.AuthorityReviewAllRequests)},
		AllowedAbsenceDays:    12,
		AllowedLateEarlyHours: "6",
	}

	_, err := svc.CreateEmployee(ctx, mgr.ID, req)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	created, err := svc.CreateEmployee(ctx, admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, employee.RoleManager, created.Role)
	assert.Equal(t, []employee.Authority{employee.AuthorityReviewAllRequests}, created.Authorities)
	assert.Equal(t, employee.StatusActive, created.Status)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, employee.HasAuthority(stored, employee.AuthorityReviewAllRequests))
	assert.False(t, employee.HasAuthority(stored, employee.AuthorityReviewSubordinateRequests), "a custom set replaces the role default")

	_, err = svc.CreateEmployee(ctx, admin.ID, employee.CreateEmployeeRequest{Name: "", Role: "BOSS", AllowedLateEarlyHours: "-1"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
}
