package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	var none *Attendance
	assert.Equal(t, StateNotStarted, none.State())
	assert.Equal(t, StateNotStarted, (&Attendance{}).State())

	in := on(8, 0)
	out := on(16, 0)
	assert.Equal(t, StateCheckedIn, (&Attendance{CheckIn: &in}).State())
	assert.Equal(t, StateOnBreak, (&Attendance{CheckIn: &in, Breaks: Breaks{{Start: on(12, 0)}}}).State())
	assert.Equal(t, StateCheckedOut, (&Attendance{CheckIn: &in, CheckOut: &out}).State())
	assert.Equal(t, StateCheckedOut, (&Attendance{Classification: ClassificationAbsent}).State())
}

func TestBreaks_ScanAndValue(t *testing.T) {
	end := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	b := Breaks{{Start: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), End: &end}}

	v, err := b.Value()
	require.NoError(t, err)

	var scanned Breaks
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 1)
	assert.True(t, scanned[0].Start.Equal(b[0].Start))
	assert.True(t, scanned[0].End.Equal(end))

	require.NoError(t, scanned.Scan([]byte(`[{"start":"2025-03-10T12:00:00Z"}]`)))
	assert.True(t, scanned.IsOpen())

	require.NoError(t, scanned.Scan(nil))
	assert.NotNil(t, scanned)
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(12))

	v, err = Breaks(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSummarize(t *testing.T) {
	in := on(8, 0)
	records := []Attendance{
		{CheckIn: &in, LateMinutes: 15, OvertimeMinutes: 30, Classification: ClassificationLate, TotalHours: decimal.RequireFromString("8.25")},
		{CheckIn: &in, OvertimeMinutes: 20, Classification: ClassificationCompleted, TotalHours: decimal.RequireFromString("8.33")},
		{CheckIn: &in, EarlyLeaveMinutes: 60, Classification: ClassificationEarlyLeave, TotalHours: decimal.NewFromInt(7)},
		{Classification: ClassificationAbsent, AbsenceAuthorized: true},
		{Classification: ClassificationAbsent},
		{Classification: ClassificationAbsent},
	}

	s := Summarize(records)

	assert.Equal(t, 1, s.AuthorizedAbsence)
	assert.Equal(t, 2, s.UnauthorizedAbsence)
	assert.Equal(t, 1, s.LateArrivals)
	assert.Equal(t, 15, s.LateMinutes)
	assert.Equal(t, 1, s.EarlyLeaves)
	assert.Equal(t, 3, s.WorkedDays)
	assert.Equal(t, 50, s.OvertimeMinutes)
	assert.True(t, decimal.RequireFromString("0.83").Equal(s.OvertimeHours()))
	assert.True(t, decimal.RequireFromString("23.58").Equal(s.TotalHours))
}

func TestAttendanceFilter_Validate(t *testing.T) {
	f := AttendanceFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"}
	require.NoError(t, f.Validate())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), f.From)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), f.To)

	reversed := AttendanceFilter{StartDate: "2025-03-31", EndDate: "2025-03-01"}
	assert.Error(t, reversed.Validate())

	tooLong := AttendanceFilter{StartDate: "2024-01-01", EndDate: "2025-06-01"}
	assert.Error(t, tooLong.Validate())

	malformed := AttendanceFilter{StartDate: "03/01/2025", EndDate: ""}
	err := malformed.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
	assert.Contains(t, err.Error(), "end_date")
}

func TestNewAttendanceResponse(t *testing.T) {
	a, err := checkedIn(t, 8, 15).Close(on(16, 30), shift)
	require.NoError(t, err)
	a.ID = "att-1"

	resp := NewAttendanceResponse(a)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "2025-03-10T08:15:00Z", *resp.CheckIn)
	assert.Equal(t, "2025-03-10T16:30:00Z", *resp.CheckOut)
	assert.Equal(t, "8.25", resp.TotalHours)
	assert.Equal(t, 15, resp.LateArrival)
	assert.Equal(t, 30, resp.Overtime)
	assert.Equal(t, ClassificationLate, resp.Attendance)
	assert.Equal(t, StateCheckedOut, resp.State)
}
