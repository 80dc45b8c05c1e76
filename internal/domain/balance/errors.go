package balance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidBalance      = errors.New("balance used must be between zero and allowed")
)

// InsufficientBalanceError carries the numbers an approver needs to decide on
// the request.
type InsufficientBalanceError struct {
	Kind      Kind
	Allowed   decimal.Decimal
	Used      decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Remaining() decimal.Decimal {
	return e.Allowed.Sub(e.Used)
}

// Shortfall is how much the request exceeds what is left.
func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Remaining())
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: remaining %s, requested %s",
		e.Kind, e.Remaining().String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
