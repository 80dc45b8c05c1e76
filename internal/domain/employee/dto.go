package employee

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name                  string   `json:"name"`
	Role                  string   `json:"role"`
	Authorities           []string `json:"authorities,omitempty"`
	AllowedAbsenceDays    int      `json:"allowedAbsenceDays"`
	AllowedLateEarlyHours string   `json:"allowedLateEarlyHours"`

	// Parsed by Validate
	ParsedRole                  Role            `json:"-"`
	ParsedAuthorities           Authorities     `json:"-"`
	ParsedAllowedLateEarlyHours decimal.Decimal `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	role, err := ParseRole(r.Role)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: ErrInvalidRole.Error(),
		})
	}
	r.ParsedRole = role

	if r.Authorities != nil {
		r.ParsedAuthorities = make(Authorities, 0, len(r.Authorities))
		for _, a := range r.Authorities {
			if !IsKnownAuthority(Authority(a)) {
				errs = append(errs, validator.ValidationError{
					Field:   "authorities",
					Message: "unknown authority: " + a,
				})
				continue
			}
			r.ParsedAuthorities = append(r.ParsedAuthorities, Authority(a))
		}
	}

	if r.AllowedAbsenceDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "allowedAbsenceDays",
			Message: "allowedAbsenceDays must not be negative",
		})
	}

	hours, ok := validator.IsNonNegativeDecimal(r.AllowedLateEarlyHours)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "allowedLateEarlyHours",
			Message: "allowedLateEarlyHours must be a non-negative number",
		})
	}
	r.ParsedAllowedLateEarlyHours = hours

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	Role                    Role        `json:"role"`
	Authorities             []Authority `json:"authorities"`
	AllowedAbsenceDays      int         `json:"allowedAbsenceDays"`
	TotalAbsenceDays        int         `json:"totalAbsenceDays"`
	AllowedLateEarlyHours   string      `json:"allowedLateEarlyHours"`
	TotalLateEarlyHours     string      `json:"totalLateEarlyHours"`
	RemainingLateEarlyHours string      `json:"remainingLateEarlyHours"`
	Status                  Status      `json:"status"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                      e.ID,
		Name:                    e.Name,
		Role:                    e.Role,
		Authorities:             e.EffectiveAuthorities(),
		AllowedAbsenceDays:      e.AllowedAbsenceDays,
		TotalAbsenceDays:        e.TotalAbsenceDays,
		AllowedLateEarlyHours:   e.AllowedLateEarlyHours.StringFixed(2),
		TotalLateEarlyHours:     e.TotalLateEarlyHours.StringFixed(2),
		RemainingLateEarlyHours: e.RemainingLateEarlyHours().StringFixed(2),
		Status:                  e.Status,
	}
}

// BalanceResponse is the balance snapshot exposed to callers.
type BalanceResponse struct {
	EmployeeID              string `json:"employeeId"`
	AllowedAbsenceDays      int    `json:"allowedAbsenceDays"`
	TotalAbsenceDays        int    `json:"totalAbsenceDays"`
	RemainingAbsenceDays    int    `json:"remainingAbsenceDays"`
	AllowedLateEarlyHours   string `json:"allowedLateEarlyHours"`
	TotalLateEarlyHours     string `json:"totalLateEarlyHours"`
	RemainingLateEarlyHours string `json:"remainingLateEarlyHours"`
}

func NewBalanceResponse(e Employee) BalanceResponse {
	return BalanceResponse{
		EmployeeID:              e.ID,
		AllowedAbsenceDays:      e.AllowedAbsenceDays,
		TotalAbsenceDays:        e.TotalAbsenceDays,
		RemainingAbsenceDays:    e.RemainingAbsenceDays(),
		AllowedLateEarlyHours:   e.AllowedLateEarlyHours.StringFixed(2),
		TotalLateEarlyHours:     e.TotalLateEarlyHours.StringFixed(2),
		RemainingLateEarlyHours: e.RemainingLateEarlyHours().StringFixed(2),
	}
}
