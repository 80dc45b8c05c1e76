package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/shopspring/decimal"
)

// Summary aggregates a set of records. Request-derived counts
// (AllowedAbsence, UnallowedAbsence) are filled in by the caller, which owns
// the request data.
type Summary struct {
	AllowedAbsence      int
	UnallowedAbsence    int
	AuthorizedAbsence   int
	UnauthorizedAbsence int
	OvertimeMinutes     int
	LateArrivals        int
	LateMinutes         int
	EarlyLeaves         int
	WorkedDays          int
	TotalHours          decimal.Decimal
}

// Summarize folds records into a Summary. Minutes are summed first and
// converted to hours once.
func Summarize(records []Attendance) Summary {
	s := Summary{TotalHours: decimal.Zero}
	for _, r := range records {
		if r.Classification == ClassificationAbsent {
			if r.AbsenceAuthorized {
				s.AuthorizedAbsence++
			} else {
				s.UnauthorizedAbsence++
			}
			continue
		}

		if r.CheckIn != nil {
			s.WorkedDays++
		}
		s.OvertimeMinutes += r.OvertimeMinutes
		s.LateMinutes += r.LateMinutes
		if r.LateMinutes > 0 {
			s.LateArrivals++
		}
		if r.EarlyLeaveMinutes > 0 {
			s.EarlyLeaves++
		}
		s.TotalHours = s.TotalHours.Add(r.TotalHours)
	}
	return s
}

// OvertimeHours is the summed overtime in hours.
func (s Summary) OvertimeHours() decimal.Decimal {
	return worktime.MinutesToHours(s.OvertimeMinutes)
}
