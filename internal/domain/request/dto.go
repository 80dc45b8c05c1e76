package request

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

const (
	// MaxAbsenceDays bounds a single absence request.
	MaxAbsenceDays = 60
	// MaxDurationMinutes bounds a single late arrival or early leave request.
	MaxDurationMinutes = 12 * 60
)

type SubmitRequest struct {
	Type            string `json:"type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Reason          string `json:"reason"`

	// Parsed by Validate
	ParsedType      Type      `json:"-"`
	ParsedStartDate time.Time `json:"-"`
	ParsedEndDate   time.Time `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	t := Type(r.Type)
	if !t.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be absence, late_arrival or early_leave",
		})
	}

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end := start
	switch t {
	case TypeAbsence:
		var endOK bool
		end, endOK = validator.IsValidDate(r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else if ok && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if ok && worktime.DaysInclusive(start, end) > MaxAbsenceDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "an absence request must not exceed 60 days",
			})
		}
	case TypeLateArrival, TypeEarlyLeave:
		if r.DurationMinutes <= 0 || r.DurationMinutes > MaxDurationMinutes {
			errs = append(errs, validator.ValidationError{
				Field:   "duration_minutes",
				Message: "duration_minutes must be between 1 and 720",
			})
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.ParsedType = t
	r.ParsedStartDate = start
	r.ParsedEndDate = end
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{
			Field:   "reason",
			Message: "rejection reason is required",
		}}
	}
	return nil
}

type RequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	Type            Type    `json:"type"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Reason          string  `json:"reason"`
	Status          Status  `json:"status"`
	GrantedDays     int     `json:"grantedDays,omitempty"`
	GrantedHours    string  `json:"grantedHours,omitempty"`
	ReviewerID      *string `json:"reviewerId,omitempty"`
	ReviewedAt      *string `json:"reviewedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	RevokedBy       *string `json:"revokedBy,omitempty"`
	RevokedAt       *string `json:"revokedAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            r.Type,
		StartDate:       r.StartDate.Format(worktime.DateLayout),
		EndDate:         r.EndDate.Format(worktime.DateLayout),
		DurationMinutes: r.DurationMinutes,
		Reason:          r.Reason,
		Status:          r.Status,
		GrantedDays:     r.GrantedDays,
		ReviewerID:      r.ReviewerID,
		ReviewedAt:      formatTime(r.ReviewedAt),
		RejectionReason: r.RejectionReason,
		RevokedBy:       r.RevokedBy,
		RevokedAt:       formatTime(r.RevokedAt),
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !r.GrantedHours.IsZero() {
		resp.GrantedHours = r.GrantedHours.StringFixed(2)
	}
	return resp
}
