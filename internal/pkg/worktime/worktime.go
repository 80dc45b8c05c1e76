// Package worktime holds the pure time arithmetic used by attendance sessions:
// elapsed durations, lateness, early leave and overtime. Hours are rounded to
// two decimal places and minutes to whole minutes, half-up, once at the point
// a value leaves this package.
package worktime

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for work dates.
const DateLayout = "2006-01-02"

var (
	minutesPerHour = decimal.NewFromInt(60)
	nanosPerHour   = decimal.NewFromInt(int64(time.Hour))
)

// Elapsed returns the duration between checkIn and checkOut. A negative naive
// difference means the session crossed midnight and 24h is added.
func Elapsed(checkIn, checkOut time.Time) time.Duration {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// ElapsedHours is Elapsed expressed in hours.
func ElapsedHours(checkIn, checkOut time.Time) decimal.Decimal {
	return Hours(Elapsed(checkIn, checkOut))
}

// Hours converts d to hours rounded to 2 decimal places.
func Hours(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d)).Div(nanosPerHour).Round(2)
}

// Minutes converts d to whole minutes, rounding half-up. Negative durations yield 0.
func Minutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + 30*time.Second) / time.Minute)
}

// Lateness returns how many minutes checkIn is past shiftStart.
func Lateness(checkIn, shiftStart time.Time) int {
	if !checkIn.After(shiftStart) {
		return 0
	}
	return Minutes(checkIn.Sub(shiftStart))
}

// EarlyLeave returns how many minutes checkOut is before shiftEnd.
func EarlyLeave(checkOut, shiftEnd time.Time) int {
	if !checkOut.Before(shiftEnd) {
		return 0
	}
	return Minutes(shiftEnd.Sub(checkOut))
}

// Overtime returns max(0, worked - shiftLength).
func Overtime(worked, shiftLength time.Duration) time.Duration {
	return max(0, worked-shiftLength)
}

// MinutesToHours converts whole minutes to hours rounded to 2 decimal places.
func MinutesToHours(m int) decimal.Decimal {
	if m <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m)).Div(minutesPerHour).Round(2)
}

// Day returns the calendar date of t as observed in loc, normalized to
// midnight UTC so it compares cleanly against stored DATE columns.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1
}
