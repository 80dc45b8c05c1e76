package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	clock             clock.Clock
	shift             worktime.Shift
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, clk clock.Clock, shift worktime.Shift, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		clock:             clk,
		shift:             shift,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", j.interval, j.AutoCloseStaleAttendances)
	scheduler.AddJob("mark_absent_employees", j.interval, j.MarkAbsentEmployees)
}

// AutoCloseStaleAttendances closes sessions left open past their shift end.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	slog.Info("Cron: Starting auto-close stale attendances job")

	closed, err := j.attendanceService.AutoCloseStale(ctx)
	if err != nil {
		return fmt.Errorf("auto-close stale attendances: %w", err)
	}

	slog.Info("Cron: Auto-close stale attendances completed", "closed", closed)
	return nil
}

// MarkAbsentEmployees reconciles the previous work day. Reruns mark nothing
// new, so the job can fire more than once a day.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	day := j.shift.DayOf(j.clock.Now()).AddDate(0, 0, -1)
	slog.Info("Cron: Starting mark absent employees job", "date", day.Format(worktime.DateLayout))

	marked, err := j.attendanceService.ReconcileAbsences(ctx, day)
	if err != nil {
		return fmt.Errorf("mark absent employees for %s: %w", day.Format(worktime.DateLayout), err)
	}

	slog.Info("Cron: Mark absent employees completed", "date", day.Format(worktime.DateLayout), "marked", marked)
	return nil
}
