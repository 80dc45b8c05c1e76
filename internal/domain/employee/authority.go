package employee

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"slices"
)

// Authority is a named capability. Checks are always set membership, never
// comparisons against role names.
type Authority string

const (
	AuthorityReviewAllRequests         Authority = "Accept and Reject All Requests"
	AuthorityReviewSubordinateRequests Authority = "Accept and Reject Employee Requests"
	AuthorityRevokeApprovals           Authority = "Revoke Approved Requests"
	AuthoritySubmitRequests            Authority = "Submit Requests"
	AuthorityRecordAttendance          Authority = "Record Attendance"
	AuthorityViewAllAttendance         Authority = "View All Attendance"
	AuthorityViewAllBalances           Authority = "View All Balances"
	AuthorityViewAuditTrail            Authority = "View Audit Trail"
	AuthorityManageEmployees           Authority = "Manage Employees"
	AuthorityRunReconciliation         Authority = "Run Absence Reconciliation"
)

// KnownAuthorities lists every capability the system checks.
var KnownAuthorities = []Authority{
	AuthorityReviewAllRequests,
	AuthorityReviewSubordinateRequests,
	AuthorityRevokeApprovals,
	AuthoritySubmitRequests,
	AuthorityRecordAttendance,
	AuthorityViewAllAttendance,
	AuthorityViewAllBalances,
	AuthorityViewAuditTrail,
	AuthorityManageEmployees,
	AuthorityRunReconciliation,
}

// RoleAuthorities maps roles to their default capability sets
var RoleAuthorities = map[Role][]Authority{
	RoleAdmin: {
		AuthorityReviewAllRequests,
		AuthorityRevokeApprovals,
		AuthoritySubmitRequests,
		AuthorityRecordAttendance,
		AuthorityViewAllAttendance,
		AuthorityViewAllBalances,
		AuthorityViewAuditTrail,
		AuthorityManageEmployees,
		AuthorityRunReconciliation,
	},
	RoleManager: {
		AuthorityReviewSubordinateRequests,
		AuthoritySubmitRequests,
		AuthorityRecordAttendance,
		AuthorityViewAllAttendance,
		AuthorityViewAllBalances,
	},
	RoleEmployee: {
		AuthoritySubmitRequests,
		AuthorityRecordAttendance,
	},
}

func IsKnownAuthority(a Authority) bool {
	return slices.Contains(KnownAuthorities, a)
}

// Authorities is a per-employee customized capability set stored as JSON.
// A nil set means the role default applies.
type Authorities []Authority

func (a Authorities) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal([]Authority(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Authorities) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan Authorities: invalid type")
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		*a = nil
		return nil
	}

	var out []Authority
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []Authority{}
	}
	*a = out
	return nil
}

// EffectiveAuthorities returns the customized set when present, otherwise the
// role default.
func (e Employee) EffectiveAuthorities() []Authority {
	if e.Authorities != nil {
		return e.Authorities
	}
	return RoleAuthorities[e.Role]
}

// HasAuthority checks if the employee holds a specific capability
func HasAuthority(e Employee, a Authority) bool {
	return slices.Contains(e.EffectiveAuthorities(), a)
}

// CanReview decides whether actor may approve or reject a request authored by
// author. Full reviewers may action anything, their own requests included.
// Subordinate reviewers may only action authors of a strictly lower role level
// and never their own requests.
func CanReview(actor, author Employee) error {
	if !actor.IsActive() {
		return ErrUnauthorized
	}
	if HasAuthority(actor, AuthorityReviewAllRequests) {
		return nil
	}
	if HasAuthority(actor, AuthorityReviewSubordinateRequests) &&
		actor.ID != author.ID &&
		author.Role.Level() < actor.Role.Level() {
		return nil
	}
	return ErrUnauthorized
}

// CanRevoke decides whether actor may revoke an approved request.
func CanRevoke(actor Employee) error {
	if !actor.IsActive() || !HasAuthority(actor, AuthorityRevokeApprovals) {
		return ErrUnauthorized
	}
	return nil
}

// Require returns ErrUnauthorized unless the employee is active and holds a.
func Require(e Employee, a Authority) error {
	if !e.IsActive() || !HasAuthority(e, a) {
		return ErrUnauthorized
	}
	return nil
}
