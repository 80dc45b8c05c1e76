package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

// MaxRangeDays bounds list and summary queries.
const MaxRangeDays = 366

// ========================================
// FILTER DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	// Parsed by Validate
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	from, ok := validator.IsValidDate(f.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	to, ok2 := validator.IsValidDate(f.EndDate)
	if !ok2 {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if ok && ok2 {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if worktime.DaysInclusive(from, to) > MaxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	f.From = from
	f.To = to
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type BreakResponse struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// AttendanceResponse keeps the field names the export tooling reads.
type AttendanceResponse struct {
	ID                string          `json:"id,omitempty"`
	EmployeeID        string          `json:"employeeId"`
	Date              string          `json:"date"`
	State             SessionState    `json:"state"`
	CheckIn           *string         `json:"checkIn"`
	CheckOut          *string         `json:"checkOut"`
	Breaks            []BreakResponse `json:"breaks"`
	TotalHours        string          `json:"totalHours"`
	LateArrival       int             `json:"lateArrival"`
	EarlyLeave        int             `json:"earlyLeave"`
	Overtime          int             `json:"overtime"`
	Attendance        Classification  `json:"attendance,omitempty"`
	HasPermission     bool            `json:"hasPermission"`
	AbsenceAuthorized bool            `json:"absenceAuthorized"`
	AutoClosed        bool            `json:"autoClosed"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(a.Breaks))
	for _, b := range a.Breaks {
		start := b.Start
		breaks = append(breaks, BreakResponse{
			Start: *formatTime(&start),
			End:   formatTime(b.End),
		})
	}

	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Date:              a.WorkDate.Format(worktime.DateLayout),
		State:             a.State(),
		CheckIn:           formatTime(a.CheckIn),
		CheckOut:          formatTime(a.CheckOut),
		Breaks:            breaks,
		TotalHours:        a.TotalHours.StringFixed(2),
		LateArrival:       a.LateMinutes,
		EarlyLeave:        a.EarlyLeaveMinutes,
		Overtime:          a.OvertimeMinutes,
		Attendance:        a.Classification,
		HasPermission:     a.HasPermission,
		AbsenceAuthorized: a.AbsenceAuthorized,
		AutoClosed:        a.AutoClosed,
	}
}

// NotStartedResponse describes a day without any record yet.
func NotStartedResponse(employeeID string, day time.Time) AttendanceResponse {
	return AttendanceResponse{
		EmployeeID: employeeID,
		Date:       day.Format(worktime.DateLayout),
		State:      StateNotStarted,
		Breaks:     []BreakResponse{},
		TotalHours: "0.00",
	}
}

type SummaryResponse struct {
	EmployeeID          string `json:"employeeId"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	AllowedAbsence      int    `json:"allowedAbsence"`
	UnallowedAbsence    int    `json:"unallowedAbsence"`
	AuthorizedAbsence   int    `json:"authorizedAbsence"`
	UnauthorizedAbsence int    `json:"unauthorizedAbsence"`
	Overtime            string `json:"overtime"`
	LateArrival         int    `json:"lateArrival"`
	LateMinutes         int    `json:"lateMinutes"`
	EarlyLeave          int    `json:"earlyLeave"`
	WorkedDays          int    `json:"workedDays"`
	TotalHours          string `json:"totalHours"`
}
