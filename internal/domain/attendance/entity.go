package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Classification is the derived outcome of a work day.
type Classification string

const (
	ClassificationPresent    Classification = "Present"
	ClassificationLate       Classification = "Late"
	ClassificationEarlyLeave Classification = "EarlyLeave"
	ClassificationCompleted  Classification = "Completed"
	ClassificationAbsent     Classification = "Absent"
)

type SessionState string

const (
	StateNotStarted SessionState = "NotStarted"
	StateCheckedIn  SessionState = "CheckedIn"
	StateOnBreak    SessionState = "OnBreak"
	StateCheckedOut SessionState = "CheckedOut"
)

type Attendance struct {
	ID                string
	EmployeeID        string
	WorkDate          time.Time
	CheckIn           *time.Time
	CheckOut          *time.Time
	Breaks            Breaks
	TotalHours        decimal.Decimal
	LateMinutes       int
	OvertimeMinutes   int
	EarlyLeaveMinutes int
	Classification    Classification
	HasPermission     bool
	AbsenceAuthorized bool
	AutoClosed        bool
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// State derives the session state from the stored fields. A nil record is
// NotStarted; an Absent record is as closed as a checked-out one.
func (a *Attendance) State() SessionState {
	switch {
	case a == nil:
		return StateNotStarted
	case a.Classification == ClassificationAbsent, a.CheckOut != nil:
		return StateCheckedOut
	case a.CheckIn == nil:
		return StateNotStarted
	case a.Breaks.IsOpen():
		return StateOnBreak
	default:
		return StateCheckedIn
	}
}

type Break struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Breaks is stored as a JSON array.
type Breaks []Break

// IsOpen reports whether the last break has not been resumed yet.
func (b Breaks) IsOpen() bool {
	return len(b) > 0 && b[len(b)-1].End == nil
}

// Total sums break time up to until. An open break counts up to until, and a
// break resumed after until is cut off there.
func (b Breaks) Total(until time.Time) time.Duration {
	var total time.Duration
	for _, br := range b {
		end := until
		if br.End != nil && br.End.Before(until) {
			end = *br.End
		}
		if end.After(br.Start) {
			total += end.Sub(br.Start)
		}
	}
	return total
}

func (b Breaks) clone() Breaks {
	out := make(Breaks, len(b))
	copy(out, b)
	return out
}

func (b Breaks) Value() (driver.Value, error) {
	if b == nil {
		b = Breaks{}
	}
	raw, err := json.Marshal([]Break(b))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (b *Breaks) Scan(value interface{}) error {
	if value == nil {
		*b = Breaks{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan Breaks: invalid type")
	}

	var out []Break
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []Break{}
	}
	*b = out
	return nil
}
