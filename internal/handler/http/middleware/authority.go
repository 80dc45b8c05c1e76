package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

// AuthorityMiddleware guards routes that have no actor-aware service behind
// them, such as the reconciliation triggers. It always checks the stored
// employee, never the role claim of the token.
type AuthorityMiddleware struct {
	employees employee.EmployeeRepository
}

func NewAuthorityMiddleware(employees employee.EmployeeRepository) *AuthorityMiddleware {
	return &AuthorityMiddleware{employees: employees}
}

// RequireAuthority checks if the caller holds a specific capability
func (m *AuthorityMiddleware) RequireAuthority(authority employee.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, ok := ActorID(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrMissingActor)
				return
			}

			actor, err := m.employees.GetByID(r.Context(), actorID)
			if err != nil {
				if !errors.Is(err, employee.ErrEmployeeNotFound) {
					slog.Error("Failed to load employee for authority check", "employee_id", actorID, "error", err)
				}
				response.HandleError(w, err)
				return
			}

			if err := employee.Require(actor, authority); err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", authority))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
