package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Work dates are calendar dates normalized to midnight UTC.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same employee and
	// date fails with ErrAttendanceExists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update writes the record when its version still matches and returns it
	// with the bumped version
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployeeAndRange returns records with from <= work_date <= to, oldest first
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// ListOpenBefore returns checked-in sessions without check-out whose work date is before date
	ListOpenBefore(ctx context.Context, date time.Time) ([]Attendance, error)
}
