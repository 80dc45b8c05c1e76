package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	attendance.AttendanceService

	reconciled []time.Time
	closeCalls atomic.Int32
	closeErr   error
}

func (s *stubAttendanceService) ReconcileAbsences(_ context.Context, day time.Time) (int, error) {
	s.reconciled = append(s.reconciled, day)
	return 3, nil
}

func (s *stubAttendanceService) AutoCloseStale(context.Context) (int, error) {
	s.closeCalls.Add(1)
	return 1, s.closeErr
}

func TestMarkAbsentEmployees_ReconcilesPreviousDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	shift := worktime.Shift{Start: worktime.TimeOfDay{Hour: 8}, End: worktime.TimeOfDay{Hour: 16}, Location: jakarta}

	// 20:00 UTC on the 11th is already the 12th in Jakarta.
	clk := &clock.Fixed{T: time.Date(2025, 3, 11, 20, 0, 0, 0, time.UTC)}
	svc := &stubAttendanceService{}
	jobs := NewAttendanceJobs(svc, clk, shift, time.Hour)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, svc.reconciled, 1)
	assert.Equal(t, "2025-03-11", svc.reconciled[0].Format(worktime.DateLayout))
}

func TestAutoCloseStaleAttendances_WrapsError(t *testing.T) {
	svc := &stubAttendanceService{closeErr: errors.New("db down")}
	jobs := NewAttendanceJobs(svc, clock.New(), worktime.DefaultShift(), time.Hour)

	err := jobs.AutoCloseStaleAttendances(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RunsJobsUntilCancelled(t *testing.T) {
	svc := &stubAttendanceService{}
	jobs := NewAttendanceJobs(svc, clock.New(), worktime.DefaultShift(), 10*time.Millisecond)

	scheduler := NewScheduler()
	scheduler.AddJob("auto_close_stale_attendances", 10*time.Millisecond, jobs.AutoCloseStaleAttendances)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	assert.Eventually(t, func() bool { return svc.closeCalls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	svc := &stubAttendanceService{}
	jobs := NewAttendanceJobs(svc, clock.New(), worktime.DefaultShift(), time.Hour)

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	assert.Equal(t, int32(1), svc.closeCalls.Load())
	assert.Len(t, svc.reconciled, 1)
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	scheduler := NewScheduler()
	ran := false
	scheduler.AddJob("panics", time.Hour, func(context.Context) error { panic("boom") })
	scheduler.AddJob("after", time.Hour, func(context.Context) error { ran = true; return nil })

	assert.NotPanics(t, func() { scheduler.RunOnce(context.Background()) })
	assert.True(t, ran)
}
