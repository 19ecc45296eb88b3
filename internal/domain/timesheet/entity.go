package timesheet

import (
	"time"
)

// Action enum
type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// TimeEntry is one raw clock event as written by the time clock
// terminal. Entries are immutable except through administrative
// correction, which is audited.
type TimeEntry struct {
	ID            string
	StaffID       string
	Action        Action
	Timestamp     time.Time
	PhotoCaptured bool
	DeviceInfo    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TimeEntryAudit records an administrative correction to a raw entry.
type TimeEntryAudit struct {
	ID           string
	TimeEntryID  string
	StaffID      string
	OldTimestamp time.Time
	NewTimestamp time.Time
	OldAction    Action
	NewAction    Action
	EditedBy     string
	EditedAt     time.Time
	Note         *string
}

// Shift is one contiguous clock-in/clock-out interval, derived from the
// raw entries and never persisted. A shift that spans midnight belongs
// entirely to the date it started on. Date and week keys use the
// "2006-01-02" civil-date form.
type Shift struct {
	StaffID string
	Date    string
	StartAt time.Time
	EndAt   *time.Time

	// WorkedMinutes is zero for open and invalid shifts.
	WorkedMinutes int

	// OvertimeMinutes is the display share of the week's overtime
	// allocated to this shift. The weekly bucket remains authoritative.
	OvertimeMinutes int

	// Invalid marks a logically impossible pairing (clock_out before
	// clock_in). Invalid shifts contribute nothing to totals.
	Invalid bool
}

// Open reports whether the shift has no matching clock-out yet.
func (s Shift) Open() bool {
	return s.EndAt == nil
}

// WeeklyBucket aggregates one Monday-started calendar week.
type WeeklyBucket struct {
	StaffID         string
	WeekStart       string
	TotalMinutes    int
	OvertimeMinutes int
}

// StaffTimesheet is the aggregation of one staff member's entries over
// a target month plus the surrounding week-boundary buffer.
type StaffTimesheet struct {
	StaffID string
	Year    int
	Month   int

	// Shifts is ordered by start time and restricted to shifts that
	// started inside the fetch window.
	Shifts []Shift

	// DayMinutes maps civil date to the day's total worked minutes.
	DayMinutes map[string]int

	// Weeks covers every week with at least one day in the target
	// month, ordered by week start.
	Weeks []WeeklyBucket
}

// ReviewReason enum, in priority order. The first matching reason wins
// per shift.
type ReviewReason string

const (
	ReasonMissingClockOut ReviewReason = "missing_clockout"
	ReasonInvalidEntry    ReviewReason = "invalid_entry"
	ReasonShortSession    ReviewReason = "short_session"
	ReasonLongSession     ReviewReason = "long_session"
	ReasonShortDay        ReviewReason = "short_day"
	ReasonLongDay         ReviewReason = "long_day"
)

// ReviewEntry flags one shift for human correction.
type ReviewEntry struct {
	StaffID       string
	Date          string
	StartAt       time.Time
	EndAt         *time.Time
	Reason        ReviewReason
	WorkedMinutes int
}

// Aggregation thresholds, all in minutes.
const (
	// WorkingDayMinimumMinutes qualifies a day for the daily allowance.
	WorkingDayMinimumMinutes = 6 * 60

	// WeeklyOvertimeThresholdMinutes is the 48-hour weekly cap; hours
	// beyond it are overtime.
	WeeklyOvertimeThresholdMinutes = 48 * 60

	// Review thresholds.
	ShortSessionMaxMinutes = 60
	LongSessionMinMinutes  = 8 * 60
	ShortDayMaxMinutes     = 3 * 60
	LongDayMinMinutes      = 9 * 60
)
