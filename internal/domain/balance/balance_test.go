package balance

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(allowedDays, usedDays int, allowedHours, usedHours string) Snapshot {
	return Snapshot{
		EmployeeID:     "emp-1",
		AbsenceDays:    Balance{Allowed: decimal.NewFromInt(int64(allowedDays)), Used: decimal.NewFromInt(int64(usedDays))},
		LateEarlyHours: Balance{Allowed: d(allowedHours), Used: d(usedHours)},
	}
}

func TestDebitAbsenceDays(t *testing.T) {
	// GIVEN 20 allowed days with 5 used
	s := snapshot(20, 5, "10", "0")

	// WHEN 3 days are debited
	got, err := DebitAbsenceDays(s, 3)

	// THEN used grows and remaining shrinks
	require.NoError(t, err)
	assert.True(t, d("8").Equal(got.AbsenceDays.Used))
	assert.True(t, d("12").Equal(got.AbsenceDays.Remaining()))
	assert.True(t, d("5").Equal(s.AbsenceDays.Used), "input snapshot must not change")
}

func TestDebitAbsenceDays_Insufficient(t *testing.T) {
	// GIVEN 20 allowed days with 19 used
	s := snapshot(20, 19, "10", "0")

	// WHEN a 2 day absence is debited
	got, err := DebitAbsenceDays(s, 2)

	// THEN the debit is refused with the remaining amount, balance unchanged
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))

	var insufficient *InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, KindAbsenceDays, insufficient.Kind)
	assert.True(t, d("1").Equal(insufficient.Remaining()))
	assert.True(t, d("2").Equal(insufficient.Requested))
	assert.True(t, d("1").Equal(insufficient.Shortfall()))
	assert.Equal(t, s, got)
}

func TestDebit_ExactlyRemaining(t *testing.T) {
	s := snapshot(20, 18, "10", "9.5")

	got, err := DebitAbsenceDays(s, 2)
	require.NoError(t, err)
	assert.True(t, got.AbsenceDays.Remaining().IsZero())

	got, err = DebitLateEarlyHours(got, d("0.5"))
	require.NoError(t, err)
	assert.True(t, got.LateEarlyHours.Remaining().IsZero())
}

func TestDebit_RejectsNonPositive(t *testing.T) {
	s := snapshot(20, 0, "10", "0")

	_, err := DebitAbsenceDays(s, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = DebitLateEarlyHours(s, d("-1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = CreditAbsenceDays(s, -2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCredit_FlooredAtZero(t *testing.T) {
	s := snapshot(20, 1, "10", "0.25")

	got, err := CreditAbsenceDays(s, 3)
	require.NoError(t, err)
	assert.True(t, got.AbsenceDays.Used.IsZero())

	got, err = CreditLateEarlyHours(got, d("1"))
	require.NoError(t, err)
	assert.True(t, got.LateEarlyHours.Used.IsZero())
}

func TestDebitThenCredit_RestoresBalance(t *testing.T) {
	s := snapshot(12, 4, "16", "3.75")

	debited, err := DebitLateEarlyHours(s, d("2.5"))
	require.NoError(t, err)
	restored, err := CreditLateEarlyHours(debited, d("2.5"))
	require.NoError(t, err)
	assert.True(t, s.LateEarlyHours.Used.Equal(restored.LateEarlyHours.Used))

	debited, err = DebitAbsenceDays(s, 5)
	require.NoError(t, err)
	restored, err = CreditAbsenceDays(debited, 5)
	require.NoError(t, err)
	assert.True(t, s.AbsenceDays.Used.Equal(restored.AbsenceDays.Used))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, snapshot(10, 10, "5", "5").Validate())
	assert.ErrorIs(t, snapshot(10, 11, "5", "0").Validate(), ErrInvalidBalance)
	assert.ErrorIs(t, snapshot(10, 0, "5", "6").Validate(), ErrInvalidBalance)
	assert.ErrorIs(t, Balance{Allowed: d("-1"), Used: d("-2")}.Validate(), ErrInvalidBalance)
}

// Random operation sequences must never leave used outside [0, allowed], and
// a refused operation must leave the snapshot untouched.
func TestLedger_InvariantUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for run := 0; run < 200; run++ {
		s := snapshot(rng.IntN(25), 0, decimal.NewFromInt(int64(rng.IntN(40))).String(), "0")

		for step := 0; step < 50; step++ {
			before := s
			var (
				next Snapshot
				err  error
			)
			switch rng.IntN(4) {
			case 0:
				next, err = DebitAbsenceDays(s, rng.IntN(6)+1)
			case 1:
				next, err = CreditAbsenceDays(s, rng.IntN(6)+1)
			case 2:
				next, err = DebitLateEarlyHours(s, decimal.NewFromInt(int64(rng.IntN(300)+1)).Div(decimal.NewFromInt(60)).Round(2))
			case 3:
				next, err = CreditLateEarlyHours(s, decimal.NewFromInt(int64(rng.IntN(300)+1)).Div(decimal.NewFromInt(60)).Round(2))
			}

			if err != nil {
				require.ErrorIs(t, err, ErrInsufficientBalance)
				require.Equal(t, before, next)
				continue
			}
			require.NoError(t, next.Validate(), "run %d step %d", run, step)
			s = next
		}
	}
}
