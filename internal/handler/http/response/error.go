package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficient *balance.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		Fail(w, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", insufficient.Error(), map[string]string{
			"kind":      string(insufficient.Kind),
			"remaining": insufficient.Remaining().String(),
			"requested": insufficient.Requested.String(),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingActor):
		Unauthorized(w, "Token does not identify an employee")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not authorized to perform this action")

	// Attendance session errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "ALREADY_CHECKED_IN", "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "ALREADY_CHECKED_OUT", "Already checked out today")
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, "ALREADY_ON_BREAK", "Already on a break")
	case errors.Is(err, attendance.ErrOnBreak):
		Conflict(w, "ON_BREAK", "Resume from the break before checking out")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Not checked in yet", nil)
	case errors.Is(err, attendance.ErrNotOnBreak):
		BadRequest(w, "Not on a break", nil)
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "ATTENDANCE_EXISTS", "Attendance record already exists for this date")

	// Request errors
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrAlreadyResolved):
		Conflict(w, "ALREADY_RESOLVED", "Request has already been approved or rejected")
	case errors.Is(err, request.ErrNotRevocable):
		BadRequest(w, "Only approved requests can be revoked", nil)
	case errors.Is(err, request.ErrRetriesExhausted), errors.Is(err, database.ErrConcurrentModification):
		Conflict(w, "CONCURRENT_MODIFICATION", "The record changed concurrently, try again")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeExists):
		Conflict(w, "EMPLOYEE_EXISTS", "Employee already exists")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")
	case errors.Is(err, balance.ErrInvalidBalance), errors.Is(err, employee.ErrFractionalAbsenceDays):
		Fail(w, http.StatusUnprocessableEntity, "INVALID_BALANCE", err.Error(), nil)

	// Audit errors
	case errors.Is(err, audit.ErrUnknownEntityType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
