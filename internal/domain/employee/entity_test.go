package employee

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee_BalanceRoundTrip(t *testing.T) {
	e := Employee{
		ID:                    "emp-1",
		AllowedAbsenceDays:    20,
		TotalAbsenceDays:      19,
		AllowedLateEarlyHours: decimal.NewFromInt(10),
		TotalLateEarlyHours:   decimal.RequireFromString("2.5"),
	}

	snap := e.Balance()
	assert.Equal(t, "emp-1", snap.EmployeeID)
	assert.True(t, decimal.NewFromInt(1).Equal(snap.AbsenceDays.Remaining()))

	snap, err := balance.DebitLateEarlyHours(snap, decimal.RequireFromString("0.75"))
	require.NoError(t, err)

	updated, err := e.WithBalance(snap)
	require.NoError(t, err)
	assert.Equal(t, 19, updated.TotalAbsenceDays)
	assert.True(t, decimal.RequireFromString("3.25").Equal(updated.TotalLateEarlyHours))
	assert.True(t, decimal.RequireFromString("6.75").Equal(updated.RemainingLateEarlyHours()))
}

func TestEmployee_WithBalanceRejectsInvalid(t *testing.T) {
	e := Employee{ID: "emp-1", AllowedAbsenceDays: 5, AllowedLateEarlyHours: decimal.NewFromInt(1)}

	snap := e.Balance()
	snap.AbsenceDays.Used = decimal.NewFromInt(6)
	_, err := e.WithBalance(snap)
	assert.ErrorIs(t, err, balance.ErrInvalidBalance)

	snap = e.Balance()
	snap.AbsenceDays.Used = decimal.RequireFromString("1.5")
	_, err = e.WithBalance(snap)
	assert.ErrorIs(t, err, ErrFractionalAbsenceDays)
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	req := CreateEmployeeRequest{
		Name:                  "Dewi",
		Role:                  "MANAGER",
		Authorities:           []string{"Submit Requests", "Accept and Reject All Requests"},
		AllowedAbsenceDays:    12,
		AllowedLateEarlyHours: "8",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, RoleManager, req.ParsedRole)
	assert.Equal(t, Authorities{AuthoritySubmitRequests, AuthorityReviewAllRequests}, req.ParsedAuthorities)
	assert.True(t, decimal.NewFromInt(8).Equal(req.ParsedAllowedLateEarlyHours))

	bad := CreateEmployeeRequest{Role: "BOSS", Authorities: []string{"Fly"}, AllowedAbsenceDays: -1, AllowedLateEarlyHours: "-2"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "role")
	assert.Contains(t, err.Error(), "authorities")
	assert.Contains(t, err.Error(), "allowedAbsenceDays")
	assert.Contains(t, err.Error(), "allowedLateEarlyHours")
}
