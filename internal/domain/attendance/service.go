package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance sessions
type AttendanceService interface {
	// CheckIn opens today's session for the employee
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// TakeBreak pauses the running session
	TakeBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// Resume ends the current break
	Resume(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut closes today's session
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetToday returns today's record, or a NotStarted placeholder
	GetToday(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// ListAttendance lists records of one employee (self, or holders of View All Attendance)
	ListAttendance(ctx context.Context, actorID string, filter AttendanceFilter) ([]AttendanceResponse, error)

	// GetAttendanceSummary aggregates absences, overtime and lateness over a range
	GetAttendanceSummary(ctx context.Context, actorID string, filter AttendanceFilter) (SummaryResponse, error)

	// ReconcileAbsences marks every active employee without a record on day as Absent
	ReconcileAbsences(ctx context.Context, day time.Time) (int, error)

	// AutoCloseStale closes sessions left open on earlier days at their scheduled shift end
	AutoCloseStale(ctx context.Context) (int, error)
}
