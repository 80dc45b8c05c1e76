package request

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAbsence     Type = "absence"
	TypeLateArrival Type = "late_arrival"
	TypeEarlyLeave  Type = "early_leave"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeAbsence, TypeLateArrival, TypeEarlyLeave:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReverted Status = "reverted"
)

// Request is an absence, late arrival or early leave an employee asks to have
// excused. Absence covers StartDate..EndDate inclusive; late arrival and
// early leave concern StartDate only and carry DurationMinutes.
type Request struct {
	ID              string
	EmployeeID      string
	Type            Type
	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int
	Reason          string
	Status          Status
	GrantedDays     int
	GrantedHours    decimal.Decimal
	ReviewerID      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	RevokedBy       *string
	RevokedAt       *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r Request) IsPending() bool {
	return r.Status == StatusPending
}

// RequestedDays is the number of calendar days an absence spans.
func (r Request) RequestedDays() int {
	if r.Type != TypeAbsence {
		return 0
	}
	return worktime.DaysInclusive(r.StartDate, r.EndDate)
}

// RequestedHours is the late arrival or early leave duration in hours.
func (r Request) RequestedHours() decimal.Decimal {
	if r.Type == TypeAbsence {
		return decimal.Zero
	}
	return worktime.MinutesToHours(r.DurationMinutes)
}

// Covers reports whether day falls within the request's dates.
func (r Request) Covers(day time.Time) bool {
	d := worktime.Day(day, time.UTC)
	return !d.Before(worktime.Day(r.StartDate, time.UTC)) && !d.After(worktime.Day(r.EndDate, time.UTC))
}

// DaysWithin counts the request's days that fall inside from..to.
func (r Request) DaysWithin(from, to time.Time) int {
	start := worktime.Day(r.StartDate, time.UTC)
	end := worktime.Day(r.EndDate, time.UTC)
	if f := worktime.Day(from, time.UTC); f.After(start) {
		start = f
	}
	if t := worktime.Day(to, time.UTC); t.Before(end) {
		end = t
	}
	return worktime.DaysInclusive(start, end)
}

// Debit applies the grant of an approval to the ledger snapshot.
func (r Request) Debit(s balance.Snapshot) (balance.Snapshot, error) {
	if r.Type == TypeAbsence {
		return balance.DebitAbsenceDays(s, r.RequestedDays())
	}
	return balance.DebitLateEarlyHours(s, r.RequestedHours())
}

// Credit gives back what an approval granted.
func (r Request) Credit(s balance.Snapshot) (balance.Snapshot, error) {
	if r.Type == TypeAbsence {
		return balance.CreditAbsenceDays(s, r.GrantedDays)
	}
	return balance.CreditLateEarlyHours(s, r.GrantedHours)
}

// Approve resolves a pending request and records the grant.
func (r Request) Approve(reviewerID string, now time.Time) (Request, error) {
	if !r.IsPending() {
		return r, ErrAlreadyResolved
	}
	reviewedAt := now.UTC()
	r.Status = StatusApproved
	r.ReviewerID = &reviewerID
	r.ReviewedAt = &reviewedAt
	if r.Type == TypeAbsence {
		r.GrantedDays = r.RequestedDays()
	} else {
		r.GrantedHours = r.RequestedHours()
	}
	return r, nil
}

// Reject resolves a pending request without any ledger effect.
func (r Request) Reject(reviewerID, reason string, now time.Time) (Request, error) {
	if !r.IsPending() {
		return r, ErrAlreadyResolved
	}
	reviewedAt := now.UTC()
	r.Status = StatusRejected
	r.ReviewerID = &reviewerID
	r.ReviewedAt = &reviewedAt
	r.RejectionReason = &reason
	return r, nil
}

// Revoke turns an approved request into a reverted one. The grant fields are
// kept so the audit trail shows what was given back.
func (r Request) Revoke(actorID string, now time.Time) (Request, error) {
	if r.Status != StatusApproved {
		return r, ErrNotRevocable
	}
	revokedAt := now.UTC()
	r.Status = StatusReverted
	r.RevokedBy = &actorID
	r.RevokedAt = &revokedAt
	return r, nil
}

// ApprovedCovering reports whether an approved request among requests covers
// day. With no types given every type counts.
func ApprovedCovering(requests []Request, day time.Time, types ...Type) bool {
	for _, r := range requests {
		if r.Status != StatusApproved || !r.Covers(day) {
			continue
		}
		if len(types) == 0 || slices.Contains(types, r.Type) {
			return true
		}
	}
	return false
}

// CoversRecord reports whether approved requests excuse an attendance record
// on day. Absence requests excuse absent days; late arrival and early leave
// requests excuse worked ones.
func CoversRecord(requests []Request, day time.Time, absent bool) bool {
	if absent {
		return ApprovedCovering(requests, day, TypeAbsence)
	}
	return ApprovedCovering(requests, day, TypeLateArrival, TypeEarlyLeave)
}
