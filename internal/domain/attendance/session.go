package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

// CheckIn opens today's session. existing is the stored record for the work
// date of now, or nil when there is none.
func CheckIn(existing *Attendance, employeeID string, now time.Time, shift worktime.Shift) (Attendance, error) {
	switch existing.State() {
	case StateCheckedIn, StateOnBreak:
		return Attendance{}, ErrAlreadyCheckedIn
	case StateCheckedOut:
		return Attendance{}, ErrAlreadyCheckedOut
	}

	day := shift.DayOf(now)
	checkIn := now.UTC()
	late := worktime.Lateness(now, shift.StartOn(day))

	classification := ClassificationPresent
	if late > 0 {
		classification = ClassificationLate
	}

	a := Attendance{
		EmployeeID:     employeeID,
		WorkDate:       day,
		CheckIn:        &checkIn,
		Breaks:         Breaks{},
		LateMinutes:    late,
		Classification: classification,
		HasPermission:  false,
	}
	if existing != nil {
		a.ID = existing.ID
		a.Version = existing.Version
		a.CreatedAt = existing.CreatedAt
	}
	return a, nil
}

// TakeBreak pauses a running session.
func (a Attendance) TakeBreak(now time.Time) (Attendance, error) {
	switch a.State() {
	case StateNotStarted:
		return a, ErrNotCheckedIn
	case StateOnBreak:
		return a, ErrAlreadyOnBreak
	case StateCheckedOut:
		return a, ErrAlreadyCheckedOut
	}

	a.Breaks = append(a.Breaks.clone(), Break{Start: now.UTC()})
	return a, nil
}

// Resume ends the open break.
func (a Attendance) Resume(now time.Time) (Attendance, error) {
	switch a.State() {
	case StateNotStarted:
		return a, ErrNotCheckedIn
	case StateCheckedIn:
		return a, ErrNotOnBreak
	case StateCheckedOut:
		return a, ErrAlreadyCheckedOut
	}

	end := now.UTC()
	a.Breaks = a.Breaks.clone()
	a.Breaks[len(a.Breaks)-1].End = &end
	return a, nil
}

// Close checks the session out and derives worked hours, early leave, overtime
// and the day's classification. Break time never counts as worked time.
func (a Attendance) Close(now time.Time, shift worktime.Shift) (Attendance, error) {
	switch a.State() {
	case StateNotStarted:
		return a, ErrNotCheckedIn
	case StateOnBreak:
		return a, ErrOnBreak
	case StateCheckedOut:
		return a, ErrAlreadyCheckedOut
	}

	checkOut := now.UTC()
	worked := worktime.Elapsed(*a.CheckIn, checkOut) - a.Breaks.Total(checkOut)
	if worked < 0 {
		worked = 0
	}

	shiftEnd := shift.EndOn(a.WorkDate)
	shiftLength := shift.LengthHours()

	a.CheckOut = &checkOut
	a.TotalHours = worktime.Hours(worked)
	a.EarlyLeaveMinutes = worktime.EarlyLeave(checkOut, shiftEnd)

	// Overtime is whichever is larger: time past the scheduled end, or worked
	// time beyond the shift length. Both come from unrounded durations.
	a.OvertimeMinutes = max(
		worktime.Lateness(checkOut, shiftEnd),
		worktime.Minutes(worktime.Overtime(worked, shift.Length())),
	)

	switch {
	case a.LateMinutes > 0:
		a.Classification = ClassificationLate
	case a.EarlyLeaveMinutes > 0 && a.TotalHours.LessThan(shiftLength):
		a.Classification = ClassificationEarlyLeave
	default:
		a.Classification = ClassificationCompleted
	}
	return a, nil
}

// AutoClose ends a session nobody checked out of, at the given instant. An
// open break is closed first; break time after at is not counted.
func (a Attendance) AutoClose(at time.Time, shift worktime.Shift) (Attendance, error) {
	if a.State() == StateOnBreak {
		resumed, err := a.Resume(at)
		if err != nil {
			return a, err
		}
		a = resumed
	}
	closed, err := a.Close(at, shift)
	if err != nil {
		return a, err
	}
	closed.AutoClosed = true
	return closed, nil
}

// NewAbsence builds the record the reconciliation pass writes for a day
// without any check-in.
func NewAbsence(employeeID string, day time.Time, authorized bool) Attendance {
	return Attendance{
		EmployeeID:        employeeID,
		WorkDate:          worktime.Day(day, time.UTC),
		Breaks:            Breaks{},
		Classification:    ClassificationAbsent,
		AbsenceAuthorized: authorized,
	}
}

// CoveredByRequest flags the day as covered by an approved request, or clears
// the flag when covered is false.
func (a Attendance) CoveredByRequest(covered bool) Attendance {
	if a.Classification == ClassificationAbsent {
		a.AbsenceAuthorized = covered
		return a
	}
	a.HasPermission = covered
	return a
}
