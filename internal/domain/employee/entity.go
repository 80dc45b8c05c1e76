package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                    string
	Name                  string
	Role                  Role
	Authorities           Authorities
	AllowedAbsenceDays    int
	TotalAbsenceDays      int
	AllowedLateEarlyHours decimal.Decimal
	TotalLateEarlyHours   decimal.Decimal
	Status                Status
	Version               int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) RemainingAbsenceDays() int {
	return e.AllowedAbsenceDays - e.TotalAbsenceDays
}

func (e Employee) RemainingLateEarlyHours() decimal.Decimal {
	return e.AllowedLateEarlyHours.Sub(e.TotalLateEarlyHours)
}

// Balance returns the ledger view of the employee.
func (e Employee) Balance() balance.Snapshot {
	return balance.Snapshot{
		EmployeeID: e.ID,
		AbsenceDays: balance.Balance{
			Allowed: decimal.NewFromInt(int64(e.AllowedAbsenceDays)),
			Used:    decimal.NewFromInt(int64(e.TotalAbsenceDays)),
		},
		LateEarlyHours: balance.Balance{
			Allowed: e.AllowedLateEarlyHours,
			Used:    e.TotalLateEarlyHours,
		},
	}
}

// WithBalance copies the used amounts of s back onto the employee.
func (e Employee) WithBalance(s balance.Snapshot) (Employee, error) {
	if err := s.Validate(); err != nil {
		return e, err
	}
	if !s.AbsenceDays.Used.IsInteger() {
		return e, ErrFractionalAbsenceDays
	}
	e.TotalAbsenceDays = int(s.AbsenceDays.Used.IntPart())
	e.TotalLateEarlyHours = s.LateEarlyHours.Used
	return e, nil
}
