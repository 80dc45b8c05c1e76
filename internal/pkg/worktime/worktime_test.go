package worktime

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     time.Duration
	}{
		{"same day", at(8, 0), at(16, 30), 8*time.Hour + 30*time.Minute},
		{"zero", at(8, 0), at(8, 0), 0},
		{"crosses midnight", at(22, 0), at(6, 0), 8 * time.Hour},
		{"crosses midnight by a minute", at(23, 59), at(0, 0), time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Elapsed(tt.checkIn, tt.checkOut))
		})
	}
}

func TestElapsedHours(t *testing.T) {
	assert.True(t, decimal.RequireFromString("8.25").Equal(ElapsedHours(at(8, 15), at(16, 30))))
	assert.True(t, decimal.RequireFromString("8").Equal(ElapsedHours(at(22, 0), at(6, 0))))
}

func TestHours_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"exact", 90 * time.Minute, "1.5"},
		{"one third", 20 * time.Minute, "0.33"},
		{"two thirds", 40 * time.Minute, "0.67"},
		{"half hundredth rounds up", 18 * time.Second, "0.01"},
		{"below half hundredth rounds down", 17 * time.Second, "0"},
		{"negative clamps", -time.Hour, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hours(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestMinutes_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 15, Minutes(15*time.Minute))
	assert.Equal(t, 1, Minutes(30*time.Second))
	assert.Equal(t, 0, Minutes(29*time.Second))
	assert.Equal(t, 2, Minutes(90*time.Second))
	assert.Equal(t, 0, Minutes(-5*time.Minute))
}

func TestLateness(t *testing.T) {
	shiftStart := at(8, 0)

	assert.Equal(t, 15, Lateness(at(8, 15), shiftStart))
	assert.Equal(t, 0, Lateness(at(8, 0), shiftStart))
	assert.Equal(t, 0, Lateness(at(7, 45), shiftStart))
}

func TestEarlyLeave(t *testing.T) {
	shiftEnd := at(16, 0)

	assert.Equal(t, 30, EarlyLeave(at(15, 30), shiftEnd))
	assert.Equal(t, 0, EarlyLeave(at(16, 0), shiftEnd))
	assert.Equal(t, 0, EarlyLeave(at(16, 30), shiftEnd))
}

func TestOvertime(t *testing.T) {
	eight := 8 * time.Hour

	assert.Equal(t, 15*time.Minute, Overtime(8*time.Hour+15*time.Minute, eight))
	assert.Equal(t, 20*time.Second, Overtime(8*time.Hour+20*time.Second, eight))
	assert.Zero(t, Overtime(7*time.Hour+30*time.Minute, eight))
	assert.Zero(t, Overtime(eight, eight))
}

func TestMinutesToHours(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.75").Equal(MinutesToHours(45)))
	assert.True(t, decimal.RequireFromString("0.33").Equal(MinutesToHours(20)))
	assert.True(t, MinutesToHours(0).IsZero())
}

func TestDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 20:00 UTC on the 10th is already the 11th in Jakarta.
	got := Day(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), jakarta)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Day(at(20, 0), nil))
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysInclusive(start, start))
	assert.Equal(t, 2, DaysInclusive(start, start.AddDate(0, 0, 1)))
	assert.Equal(t, 31, DaysInclusive(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysInclusive(start, start.AddDate(0, 0, -1)))
}
