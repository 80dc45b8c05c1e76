package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/keylock"
)

type Options struct {
	// MaxAttempts is how often a decision is tried when the request or the
	// author's balance keeps changing underneath it.
	MaxAttempts  int
	RetryBackoff time.Duration
}

type RequestServiceImpl struct {
	tx database.TxManager
	request.RequestRepository
	employee.EmployeeRepository
	attendance.AttendanceRepository
	audit.AuditRepository
	locks *keylock.Locker
	clock clock.Clock
	opts  Options
}

// Submit implements request.RequestService.
func (s *RequestServiceImpl) Submit(ctx context.Context, employeeID string, req request.SubmitRequest) (request.RequestResponse, error) {
	author, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return request.RequestResponse{}, err
	}
	if err := employee.Require(author, employee.AuthoritySubmitRequests); err != nil {
		return request.RequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	created, err := s.RequestRepository.Create(ctx, request.Request{
		EmployeeID:      author.ID,
		Type:            req.ParsedType,
		StartDate:       req.ParsedStartDate,
		EndDate:         req.ParsedEndDate,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
		Status:          request.StatusPending,
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	slog.Info("Request submitted", "request_id", created.ID, "employee_id", author.ID, "type", created.Type)
	return request.NewRequestResponse(created), nil
}

// decision is one attempt at changing a request. It runs inside a
// transaction with the request, its author and the actor freshly loaded.
type decision func(ctx context.Context, r request.Request, author, actor employee.Employee) (request.Request, error)

// decide serializes on the request's author, then retries apply from a fresh
// read whenever a version check fails.
func (s *RequestServiceImpl) decide(ctx context.Context, op, actorID, requestID string, apply decision) (request.Request, error) {
	current, err := s.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return request.Request{}, err
	}

	unlock := s.locks.Lock(current.EmployeeID)
	defer unlock()

	var saved request.Request
	err = database.Retry(ctx, s.opts.MaxAttempts, s.opts.RetryBackoff, func(attempt int) error {
		if attempt > 1 {
			slog.Warn("Retrying request decision after concurrent modification", "op", op, "request_id", requestID, "attempt", attempt)
		}
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			r, err := s.RequestRepository.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			actor, err := s.EmployeeRepository.GetByID(ctx, actorID)
			if err != nil {
				return err
			}
			author, err := s.EmployeeRepository.GetByID(ctx, r.EmployeeID)
			if err != nil {
				return err
			}

			saved, err = apply(ctx, r, author, actor)
			return err
		})
	})
	if err != nil {
		if database.IsRetryable(err) {
			slog.Error("Request decision gave up", "op", op, "request_id", requestID, "error", err)
			return request.Request{}, fmt.Errorf("%w: %w", request.ErrRetriesExhausted, err)
		}
		return request.Request{}, err
	}

	slog.Info("Request decided", "op", op, "request_id", saved.ID, "actor_id", actorID, "status", saved.Status)
	return saved, nil
}

// Approve implements request.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, actorID, requestID string) (request.RequestResponse, error) {
	saved, err := s.decide(ctx, "approve", actorID, requestID, func(ctx context.Context, r request.Request, author, actor employee.Employee) (request.Request, error) {
		if err := employee.CanReview(actor, author); err != nil {
			return request.Request{}, err
		}

		approved, err := r.Approve(actor.ID, s.clock.Now())
		if err != nil {
			return request.Request{}, err
		}
		debited, err := approved.Debit(author.Balance())
		if err != nil {
			return request.Request{}, err
		}
		if err := s.updateBalance(ctx, actor.ID, author, debited, audit.ActionBalanceDebited); err != nil {
			return request.Request{}, err
		}

		return s.saveRequest(ctx, actor.ID, r, approved, audit.ActionRequestApproved)
	})
	if err != nil {
		return request.RequestResponse{}, err
	}
	return request.NewRequestResponse(saved), nil
}

// Reject implements request.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, actorID, requestID string, req request.RejectRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	saved, err := s.decide(ctx, "reject", actorID, requestID, func(ctx context.Context, r request.Request, author, actor employee.Employee) (request.Request, error) {
		if err := employee.CanReview(actor, author); err != nil {
			return request.Request{}, err
		}

		rejected, err := r.Reject(actor.ID, req.Reason, s.clock.Now())
		if err != nil {
			return request.Request{}, err
		}
		return s.saveRequest(ctx, actor.ID, r, rejected, audit.ActionRequestRejected)
	})
	if err != nil {
		return request.RequestResponse{}, err
	}
	return request.NewRequestResponse(saved), nil
}

// Revoke implements request.RequestService.
func (s *RequestServiceImpl) Revoke(ctx context.Context, actorID, requestID string) (request.RequestResponse, error) {
	saved, err := s.decide(ctx, "revoke", actorID, requestID, func(ctx context.Context, r request.Request, author, actor employee.Employee) (request.Request, error) {
		if err := employee.CanRevoke(actor); err != nil {
			return request.Request{}, err
		}

		revoked, err := r.Revoke(actor.ID, s.clock.Now())
		if err != nil {
			return request.Request{}, err
		}
		credited, err := revoked.Credit(author.Balance())
		if err != nil {
			return request.Request{}, err
		}
		if err := s.updateBalance(ctx, actor.ID, author, credited, audit.ActionBalanceCredited); err != nil {
			return request.Request{}, err
		}

		return s.saveRequest(ctx, actor.ID, r, revoked, audit.ActionRequestRevoked)
	})
	if err != nil {
		return request.RequestResponse{}, err
	}
	return request.NewRequestResponse(saved), nil
}

func (s *RequestServiceImpl) updateBalance(ctx context.Context, actorID string, author employee.Employee, snapshot balance.Snapshot, action audit.Action) error {
	next, err := author.WithBalance(snapshot)
	if err != nil {
		return err
	}
	saved, err := s.EmployeeRepository.UpdateBalance(ctx, next)
	if err != nil {
		return err
	}
	return s.appendAudit(ctx, actorID, action, audit.EntityEmployee, author.ID,
		employee.NewBalanceResponse(author), employee.NewBalanceResponse(saved))
}

// saveRequest persists the decided request, brings the author's attendance
// flags in line with the approved requests that now cover them and records
// the change.
func (s *RequestServiceImpl) saveRequest(ctx context.Context, actorID string, before, after request.Request, action audit.Action) (request.Request, error) {
	saved, err := s.RequestRepository.Update(ctx, after)
	if err != nil {
		return request.Request{}, err
	}
	if saved.Status != request.StatusRejected {
		if err := s.backfillAttendance(ctx, saved); err != nil {
			return request.Request{}, err
		}
	}
	if err := s.appendAudit(ctx, actorID, action, audit.EntityRequest, saved.ID,
		request.NewRequestResponse(before), request.NewRequestResponse(saved)); err != nil {
		return request.Request{}, err
	}
	return saved, nil
}

func (s *RequestServiceImpl) backfillAttendance(ctx context.Context, r request.Request) error {
	requests, err := s.RequestRepository.ListByEmployeeAndRange(ctx, r.EmployeeID, r.StartDate, r.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load requests: %w", err)
	}
	records, err := s.AttendanceRepository.ListByEmployeeAndRange(ctx, r.EmployeeID, r.StartDate, r.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load attendance: %w", err)
	}

	for _, a := range records {
		absent := a.Classification == attendance.ClassificationAbsent
		next := a.CoveredByRequest(request.CoversRecord(requests, a.WorkDate, absent))
		if next.HasPermission == a.HasPermission && next.AbsenceAuthorized == a.AbsenceAuthorized {
			continue
		}
		if _, err := s.AttendanceRepository.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update attendance %s: %w", a.ID, err)
		}
	}
	return nil
}

func (s *RequestServiceImpl) appendAudit(ctx context.Context, actorID string, action audit.Action, entityType audit.EntityType, entityID string, before, after any) error {
	entry, err := audit.NewEntry(actorID, action, entityType, entityID, before, after)
	if err != nil {
		return err
	}
	_, err = s.AuditRepository.Append(ctx, entry)
	return err
}

// Get implements request.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, actorID, requestID string) (request.RequestResponse, error) {
	r, err := s.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return request.RequestResponse{}, err
	}
	if r.EmployeeID == actorID {
		return request.NewRequestResponse(r), nil
	}

	actor, err := s.EmployeeRepository.GetByID(ctx, actorID)
	if err != nil {
		return request.RequestResponse{}, err
	}
	author, err := s.EmployeeRepository.GetByID(ctx, r.EmployeeID)
	if err != nil {
		return request.RequestResponse{}, err
	}
	if employee.CanReview(actor, author) != nil && employee.CanRevoke(actor) != nil {
		return request.RequestResponse{}, employee.ErrUnauthorized
	}
	return request.NewRequestResponse(r), nil
}

// ListMine implements request.RequestService.
func (s *RequestServiceImpl) ListMine(ctx context.Context, employeeID string) ([]request.RequestResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	requests, err := s.RequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListPending implements request.RequestService.
func (s *RequestServiceImpl) ListPending(ctx context.Context, actorID string) ([]request.RequestResponse, error) {
	actor, err := s.EmployeeRepository.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if employee.Require(actor, employee.AuthorityReviewAllRequests) != nil &&
		employee.Require(actor, employee.AuthorityReviewSubordinateRequests) != nil {
		return nil, employee.ErrUnauthorized
	}

	pending, err := s.RequestRepository.ListByStatus(ctx, request.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	authors := make(map[string]employee.Employee)
	reviewable := make([]request.Request, 0, len(pending))
	for _, r := range pending {
		author, ok := authors[r.EmployeeID]
		if !ok {
			author, err = s.EmployeeRepository.GetByID(ctx, r.EmployeeID)
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			authors[r.EmployeeID] = author
		}
		if employee.CanReview(actor, author) == nil {
			reviewable = append(reviewable, r)
		}
	}
	return toResponses(reviewable), nil
}

func toResponses(requests []request.Request) []request.RequestResponse {
	responses := make([]request.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, request.NewRequestResponse(r))
	}
	return responses
}

func NewRequestService(
	txManager database.TxManager,
	requestRepo request.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	auditRepo audit.AuditRepository,
	locks *keylock.Locker,
	clk clock.Clock,
	opts Options,
) request.RequestService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	return &RequestServiceImpl{
		tx:                   txManager,
		RequestRepository:    requestRepo,
		EmployeeRepository:   employeeRepo,
		AttendanceRepository: attendanceRepo,
		AuditRepository:      auditRepo,
		locks:                locks,
		clock:                clk,
		opts:                 opts,
	}
}
