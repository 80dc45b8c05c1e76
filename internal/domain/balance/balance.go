// Package balance is the ledger for the two bounded per-employee entitlements:
// absence days and late/early hours. Every operation is a pure transformation
// over a value; callers persist the result in the same transaction as the
// request that caused it.
package balance

import (
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindAbsenceDays    Kind = "absence_days"
	KindLateEarlyHours Kind = "late_early_hours"
)

// Balance is an (allowed, used) pair. Invariant: 0 <= Used <= Allowed.
type Balance struct {
	Allowed decimal.Decimal `json:"allowed"`
	Used    decimal.Decimal `json:"used"`
}

func (b Balance) Remaining() decimal.Decimal {
	return b.Allowed.Sub(b.Used)
}

func (b Balance) Validate() error {
	if b.Allowed.IsNegative() || b.Used.IsNegative() || b.Used.GreaterThan(b.Allowed) {
		return ErrInvalidBalance
	}
	return nil
}

// Debit consumes amount. It fails without touching the balance when the
// result would exceed Allowed.
func (b Balance) Debit(kind Kind, amount decimal.Decimal) (Balance, error) {
	if !amount.IsPositive() {
		return b, ErrInvalidAmount
	}
	if b.Used.Add(amount).GreaterThan(b.Allowed) {
		return b, &InsufficientBalanceError{
			Kind:      kind,
			Allowed:   b.Allowed,
			Used:      b.Used,
			Requested: amount,
		}
	}
	return Balance{Allowed: b.Allowed, Used: b.Used.Add(amount)}, nil
}

// Credit gives amount back, floored at zero used.
func (b Balance) Credit(amount decimal.Decimal) (Balance, error) {
	if !amount.IsPositive() {
		return b, ErrInvalidAmount
	}
	used := b.Used.Sub(amount)
	if used.IsNegative() {
		used = decimal.Zero
	}
	return Balance{Allowed: b.Allowed, Used: used}, nil
}

// Snapshot is one employee's full ledger state.
type Snapshot struct {
	EmployeeID     string  `json:"employeeId"`
	AbsenceDays    Balance `json:"absenceDays"`
	LateEarlyHours Balance `json:"lateEarlyHours"`
}

func (s Snapshot) Validate() error {
	if err := s.AbsenceDays.Validate(); err != nil {
		return err
	}
	return s.LateEarlyHours.Validate()
}

func DebitAbsenceDays(s Snapshot, days int) (Snapshot, error) {
	b, err := s.AbsenceDays.Debit(KindAbsenceDays, decimal.NewFromInt(int64(days)))
	if err != nil {
		return s, err
	}
	s.AbsenceDays = b
	return s, nil
}

func DebitLateEarlyHours(s Snapshot, hours decimal.Decimal) (Snapshot, error) {
	b, err := s.LateEarlyHours.Debit(KindLateEarlyHours, hours)
	if err != nil {
		return s, err
	}
	s.LateEarlyHours = b
	return s, nil
}

func CreditAbsenceDays(s Snapshot, days int) (Snapshot, error) {
	b, err := s.AbsenceDays.Credit(decimal.NewFromInt(int64(days)))
	if err != nil {
		return s, err
	}
	s.AbsenceDays = b
	return s, nil
}

func CreditLateEarlyHours(s Snapshot, hours decimal.Decimal) (Snapshot, error) {
	b, err := s.LateEarlyHours.Credit(hours)
	if err != nil {
		return s, err
	}
	s.LateEarlyHours = b
	return s, nil
}
