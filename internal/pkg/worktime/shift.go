package worktime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

// Shift is the configured working window of a day.
type Shift struct {
	Start    TimeOfDay
	End      TimeOfDay
	Location *time.Location
}

// DefaultShift is 08:00 to 16:00 in UTC.
func DefaultShift() Shift {
	return Shift{
		Start:    TimeOfDay{Hour: 8},
		End:      TimeOfDay{Hour: 16},
		Location: time.UTC,
	}
}

func (s Shift) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Length is the scheduled duration. An End at or before Start means the shift
// ends on the next day.
func (s Shift) Length() time.Duration {
	d := s.End.offset() - s.Start.offset()
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d
}

// LengthHours is Length in hours.
func (s Shift) LengthHours() decimal.Decimal {
	return Hours(s.Length())
}

// StartOn returns the shift start for the given work date.
func (s Shift) StartOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.Start.Hour, s.Start.Minute, 0, 0, s.location())
}

// EndOn returns the shift end for the given work date.
func (s Shift) EndOn(day time.Time) time.Time {
	return s.StartOn(day).Add(s.Length())
}

// DayOf returns the work date t falls on in the shift's location.
func (s Shift) DayOf(t time.Time) time.Time {
	return Day(t, s.location())
}
