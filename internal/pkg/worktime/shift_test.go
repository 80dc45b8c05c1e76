package worktime

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30}, tod)
	assert.Equal(t, "08:30", tod.String())

	_, err = ParseTimeOfDay("8am")
	assert.Error(t, err)
}

func TestShift_Length(t *testing.T) {
	assert.Equal(t, 8*time.Hour, DefaultShift().Length())
	assert.True(t, decimal.NewFromInt(8).Equal(DefaultShift().LengthHours()))

	night := Shift{Start: TimeOfDay{Hour: 22}, End: TimeOfDay{Hour: 6}}
	assert.Equal(t, 8*time.Hour, night.Length())
}

func TestShift_StartAndEndOn(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s := DefaultShift()
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), s.StartOn(day))
	assert.Equal(t, time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), s.EndOn(day))

	night := Shift{Start: TimeOfDay{Hour: 22}, End: TimeOfDay{Hour: 6}, Location: time.UTC}
	assert.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC), night.EndOn(day))
}

func TestShift_DayOf(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	s := Shift{Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 16}, Location: jakarta}
	got := s.DayOf(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)

	start := s.StartOn(got)
	assert.Equal(t, time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), start.UTC())
}
