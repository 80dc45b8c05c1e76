package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

// Options carries the schedule the service measures sessions against.
type Options struct {
	Shift worktime.Shift
	// StaleGrace is how long an open session from an earlier day is left
	// alone after its closing time before AutoCloseStale closes it.
	StaleGrace time.Duration
}

type AttendanceServiceImpl struct {
	tx database.TxManager
	attendance.AttendanceRepository
	employee.EmployeeRepository
	request.RequestRepository
	audit.AuditRepository
	locks *keylock.Locker
	clock clock.Clock
	opts  Options
}

type transitionFunc func(existing *attendance.Attendance, now time.Time) (attendance.Attendance, error)

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	return s.transition(ctx, employeeID, "check_in", false, func(existing *attendance.Attendance, now time.Time) (attendance.Attendance, error) {
		return attendance.CheckIn(existing, employeeID, now, s.opts.Shift)
	})
}

// TakeBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TakeBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	return s.transition(ctx, employeeID, "take_break", true, func(existing *attendance.Attendance, now time.Time) (attendance.Attendance, error) {
		if existing == nil {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return existing.TakeBreak(now)
	})
}

// Resume implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Resume(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	return s.transition(ctx, employeeID, "resume", true, func(existing *attendance.Attendance, now time.Time) (attendance.Attendance, error) {
		if existing == nil {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return existing.Resume(now)
	})
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	return s.transition(ctx, employeeID, "check_out", true, func(existing *attendance.Attendance, now time.Time) (attendance.Attendance, error) {
		if existing == nil {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return existing.Close(now, s.opts.Shift)
	})
}

// transition loads the session the operation applies to, runs apply and
// persists the result in one transaction while holding the employee's lock.
// followOvernight lets an operation reach a session opened on the previous
// work date that is still running past midnight.
func (s *AttendanceServiceImpl) transition(ctx context.Context, employeeID, op string, followOvernight bool, apply transitionFunc) (attendance.AttendanceResponse, error) {
	unlock := s.locks.Lock(employeeID)
	defer unlock()

	actor, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := employee.Require(actor, employee.AuthorityRecordAttendance); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	var saved attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.currentSession(ctx, employeeID, now, followOvernight)
		if err != nil {
			return err
		}

		next, err := apply(existing, now)
		if err != nil {
			return err
		}

		if next.CheckOut != nil {
			requests, err := s.RequestRepository.ListByEmployeeAndRange(ctx, employeeID, next.WorkDate, next.WorkDate)
			if err != nil {
				return fmt.Errorf("failed to load requests: %w", err)
			}
			next = next.CoveredByRequest(request.CoversRecord(requests, next.WorkDate, false))
		}

		if existing == nil {
			saved, err = s.AttendanceRepository.Create(ctx, next)
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.ErrAlreadyCheckedIn
			}
			return err
		}
		saved, err = s.AttendanceRepository.Update(ctx, next)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance updated", "employee_id", employeeID, "op", op, "state", saved.State(), "classification", saved.Classification)
	return attendance.NewAttendanceResponse(saved), nil
}

func (s *AttendanceServiceImpl) currentSession(ctx context.Context, employeeID string, now time.Time, followOvernight bool) (*attendance.Attendance, error) {
	today := s.opts.Shift.DayOf(now)
	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil || !followOvernight {
		return existing, nil
	}

	previous, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to load previous attendance: %w", err)
	}
	if state := previous.State(); state == attendance.StateCheckedIn || state == attendance.StateOnBreak {
		return previous, nil
	}
	return nil, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now()
	existing, err := s.currentSession(ctx, employeeID, now, true)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing == nil {
		return attendance.NotStartedResponse(employeeID, s.opts.Shift.DayOf(now)), nil
	}
	return attendance.NewAttendanceResponse(*existing), nil
}

// authorizeView resolves the employee a listing is about. Anyone may view
// their own records; other employees need View All Attendance.
func (s *AttendanceServiceImpl) authorizeView(ctx context.Context, actorID string, filter *attendance.AttendanceFilter) (employee.Employee, error) {
	if err := filter.Validate(); err != nil {
		return employee.Employee{}, err
	}
	if filter.EmployeeID == "" {
		filter.EmployeeID = actorID
	}

	actor, err := s.EmployeeRepository.GetByID(ctx, actorID)
	if err != nil {
		return employee.Employee{}, err
	}
	if filter.EmployeeID == actorID {
		return actor, nil
	}
	if err := employee.Require(actor, employee.AuthorityViewAllAttendance); err != nil {
		return employee.Employee{}, err
	}
	return s.EmployeeRepository.GetByID(ctx, filter.EmployeeID)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actorID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	target, err := s.authorizeView(ctx, actorID, &filter)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByEmployeeAndRange(ctx, target.ID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses, nil
}

// GetAttendanceSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceSummary(ctx context.Context, actorID string, filter attendance.AttendanceFilter) (attendance.SummaryResponse, error) {
	target, err := s.authorizeView(ctx, actorID, &filter)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByEmployeeAndRange(ctx, target.ID, filter.From, filter.To)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	requests, err := s.RequestRepository.ListByEmployeeAndRange(ctx, target.ID, filter.From, filter.To)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list requests: %w", err)
	}

	summary := attendance.Summarize(records)
	for _, r := range requests {
		if r.Type != request.TypeAbsence {
			continue
		}
		switch r.Status {
		case request.StatusApproved:
			summary.AllowedAbsence += r.DaysWithin(filter.From, filter.To)
		case request.StatusRejected:
			summary.UnallowedAbsence += r.DaysWithin(filter.From, filter.To)
		}
	}

	return attendance.SummaryResponse{
		EmployeeID:          target.ID,
		StartDate:           filter.StartDate,
		EndDate:             filter.EndDate,
		AllowedAbsence:      summary.AllowedAbsence,
		UnallowedAbsence:    summary.UnallowedAbsence,
		AuthorizedAbsence:   summary.AuthorizedAbsence,
		UnauthorizedAbsence: summary.UnauthorizedAbsence,
		Overtime:            summary.OvertimeHours().StringFixed(2),
		LateArrival:         summary.LateArrivals,
		LateMinutes:         summary.LateMinutes,
		EarlyLeave:          summary.EarlyLeaves,
		WorkedDays:          summary.WorkedDays,
		TotalHours:          summary.TotalHours.StringFixed(2),
	}, nil
}

// ReconcileAbsences implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReconcileAbsences(ctx context.Context, day time.Time) (int, error) {
	day = worktime.Day(day, time.UTC)
	if !day.Before(s.opts.Shift.DayOf(s.clock.Now())) {
		return 0, fmt.Errorf("%w: only past days can be reconciled", attendance.ErrInvalidDateRange)
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	var errs []error
	for _, e := range employees {
		if !employee.HasAuthority(e, employee.AuthorityRecordAttendance) {
			continue
		}
		ok, err := s.markAbsent(ctx, e.ID, day)
		if err != nil {
			slog.Error("Failed to mark absence", "employee_id", e.ID, "date", day.Format(worktime.DateLayout), "error", err)
			errs = append(errs, fmt.Errorf("employee %s: %w", e.ID, err))
			continue
		}
		if ok {
			marked++
		}
	}

	slog.Info("Absence reconciliation finished", "date", day.Format(worktime.DateLayout), "marked", marked, "failed", len(errs))
	return marked, errors.Join(errs...)
}

func (s *AttendanceServiceImpl) markAbsent(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	unlock := s.locks.Lock(employeeID)
	defer unlock()

	marked := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
		if err != nil || existing != nil {
			return err
		}

		requests, err := s.RequestRepository.ListByEmployeeAndRange(ctx, employeeID, day, day)
		if err != nil {
			return fmt.Errorf("failed to load requests: %w", err)
		}

		absence := attendance.NewAbsence(employeeID, day, request.CoversRecord(requests, day, true))
		created, err := s.AttendanceRepository.Create(ctx, absence)
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.appendAudit(ctx, audit.ActionAbsenceMarked, created.ID, nil, attendance.NewAttendanceResponse(created)); err != nil {
			return err
		}
		marked = true
		return nil
	})
	return marked, err
}

// AutoCloseStale implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoCloseStale(ctx context.Context) (int, error) {
	now := s.clock.Now()
	open, err := s.AttendanceRepository.ListOpenBefore(ctx, s.opts.Shift.DayOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	closed := 0
	var errs []error
	for _, a := range open {
		if now.Before(closingTime(a, s.opts.Shift).Add(s.opts.StaleGrace)) {
			continue
		}
		ok, err := s.autoClose(ctx, a.EmployeeID, a.ID)
		if err != nil {
			slog.Error("Failed to auto-close session", "employee_id", a.EmployeeID, "attendance_id", a.ID, "error", err)
			errs = append(errs, fmt.Errorf("attendance %s: %w", a.ID, err))
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 || len(errs) > 0 {
		slog.Info("Auto-closed stale sessions", "closed", closed, "failed", len(errs))
	}
	return closed, errors.Join(errs...)
}

func (s *AttendanceServiceImpl) autoClose(ctx context.Context, employeeID, attendanceID string) (bool, error) {
	unlock := s.locks.Lock(employeeID)
	defer unlock()

	closed := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.AttendanceRepository.GetByID(ctx, attendanceID)
		if err != nil {
			return err
		}
		if state := current.State(); state != attendance.StateCheckedIn && state != attendance.StateOnBreak {
			return nil
		}

		next, err := current.AutoClose(closingTime(current, s.opts.Shift), s.opts.Shift)
		if err != nil {
			return err
		}
		requests, err := s.RequestRepository.ListByEmployeeAndRange(ctx, employeeID, next.WorkDate, next.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to load requests: %w", err)
		}
		next = next.CoveredByRequest(request.CoversRecord(requests, next.WorkDate, false))

		saved, err := s.AttendanceRepository.Update(ctx, next)
		if err != nil {
			return err
		}
		if err := s.appendAudit(ctx, audit.ActionSessionClosed, saved.ID,
			attendance.NewAttendanceResponse(current), attendance.NewAttendanceResponse(saved)); err != nil {
			return err
		}
		closed = true
		return nil
	})
	return closed, err
}

// closingTime is the scheduled shift end, moved later when the session
// started after it or its last break reaches past it. A resumed break counts
// by its end, an open one by its start.
func closingTime(a attendance.Attendance, shift worktime.Shift) time.Time {
	at := shift.EndOn(a.WorkDate)
	if a.CheckIn != nil && a.CheckIn.After(at) {
		at = *a.CheckIn
	}
	if n := len(a.Breaks); n > 0 {
		last := a.Breaks[n-1].Start
		if end := a.Breaks[n-1].End; end != nil {
			last = *end
		}
		if last.After(at) {
			at = last
		}
	}
	return at
}

func (s *AttendanceServiceImpl) appendAudit(ctx context.Context, action audit.Action, attendanceID string, before, after any) error {
	entry, err := audit.NewEntry(audit.SystemActor, action, audit.EntityAttendance, attendanceID, before, after)
	if err != nil {
		return err
	}
	_, err = s.AuditRepository.Append(ctx, entry)
	return err
}

func NewAttendanceService(
	txManager database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	requestRepo request.RequestRepository,
	auditRepo audit.AuditRepository,
	locks *keylock.Locker,
	clk clock.Clock,
	opts Options,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   txManager,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		RequestRepository:    requestRepo,
		AuditRepository:      auditRepo,
		locks:                locks,
		clock:                clk,
		opts:                 opts,
	}
}
