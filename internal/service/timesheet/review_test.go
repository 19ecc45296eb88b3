package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

func buildMonth(t *testing.T, entries []timesheet.TimeEntry) timesheet.StaffTimesheet {
	t.Helper()
	return BuildTimesheet("s1", 2025, 6, entries, time.UTC)
}

func TestClassify_MissingClockOut(t *testing.T) {
	t.Parallel()

	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 09:00"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 1)
	assert.Equal(t, timesheet.ReasonMissingClockOut, flagged[0].Reason)
}

func TestClassify_InvalidEntry(t *testing.T) {
	t.Parallel()

	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 17:00"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 1)
	assert.Equal(t, timesheet.ReasonInvalidEntry, flagged[0].Reason)
}

func TestClassify_ShortSession(t *testing.T) {
	t.Parallel()

	// 30 minutes on a day that also has a normal shift, so the day
	// total does not trip the day-level rules.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 08:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 08:30"),
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 09:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 16:00"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 1)
	assert.Equal(t, timesheet.ReasonShortSession, flagged[0].Reason)
	assert.Equal(t, 30, flagged[0].WorkedMinutes)
}

func TestClassify_LongSession(t *testing.T) {
	t.Parallel()

	// A single 10-hour shift.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 08:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 18:00"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 1)
	assert.Equal(t, timesheet.ReasonLongSession, flagged[0].Reason)
}

func TestClassify_ShortDay(t *testing.T) {
	t.Parallel()

	// Two 80-minute sessions: each clears the session floor but the day
	// totals 160 minutes.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 09:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 10:20"),
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 13:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 14:20"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 2)
	for _, f := range flagged {
		assert.Equal(t, timesheet.ReasonShortDay, f.Reason)
	}
}

func TestClassify_LongDay(t *testing.T) {
	t.Parallel()

	// Two 5-hour sessions: each session is unremarkable but the day
	// totals 10 hours.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 07:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 12:00"),
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 13:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 18:00"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 2)
	for _, f := range flagged {
		assert.Equal(t, timesheet.ReasonLongDay, f.Reason)
	}
}

func TestClassify_NormalShiftNotFlagged(t *testing.T) {
	t.Parallel()

	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 09:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 16:00"),
	})

	assert.Empty(t, Classify(ts))
}

func TestClassify_FirstMatchingReasonWins(t *testing.T) {
	t.Parallel()

	// A lone 30-minute shift also makes a short day; the session-level
	// reason has priority.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-06-10 09:00"),
		clockEntry(t, "s1", timesheet.ActionClockOut, "2025-06-10 09:30"),
	})

	flagged := Classify(ts)
	require.Len(t, flagged, 1)
	assert.Equal(t, timesheet.ReasonShortSession, flagged[0].Reason)
}

func TestClassify_IgnoresBoundaryWeekShiftsOutsideMonth(t *testing.T) {
	t.Parallel()

	// An open shift on May 28 sits in the timesheet because its week
	// touches June, but review is scoped to the month itself.
	ts := buildMonth(t, []timesheet.TimeEntry{
		clockEntry(t, "s1", timesheet.ActionClockIn, "2025-05-28 09:00"),
	})

	require.NotEmpty(t, ts.Shifts)
	assert.Empty(t, Classify(ts))
}
