package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

const dateLayout = "2006-01-02"

// MonthWindow returns the [from, to) range of raw entries needed to
// aggregate a target month: Monday of the week containing the 1st
// through Sunday of the week containing the last day, widened by one
// day on each side so boundary-crossing shifts find both their clock
// events.
func MonthWindow(year, month int, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	from := mondayOf(first).AddDate(0, 0, -1)
	to := mondayOf(last).AddDate(0, 0, 8)
	return from, to
}

// mondayOf returns midnight of the Monday of t's week, in t's location.
func mondayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// monthKey is the "2006-01" prefix shared by the month's civil dates.
func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// BuildTimesheet pairs raw clock entries into shifts and aggregates
// daily totals and Monday-started weekly buckets for the target month.
// Entries must cover MonthWindow; timestamps are interpreted in loc.
//
// Pairing rules:
//   - a clock_in opens a shift, the next clock_out closes it
//   - a clock_in while a shift is open closes the previous shift at
//     zero duration (the classifier picks it up as a short session)
//   - a clock_out with no open shift is kept as an invalid shift so it
//     surfaces in review instead of disappearing
//   - an open shift at the end of the walk contributes zero minutes
//
// A shift spanning midnight attributes all of its minutes to the date
// it started on.
func BuildTimesheet(staffID string, year, month int, entries []timesheet.TimeEntry, loc *time.Location) timesheet.StaffTimesheet {
	sorted := make([]timesheet.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		// A clock_out at the same instant closes before the next
		// shift opens.
		return sorted[i].Action == timesheet.ActionClockOut && sorted[j].Action == timesheet.ActionClockIn
	})

	var shifts []timesheet.Shift
	var open *timesheet.Shift

	for _, e := range sorted {
		local := e.Timestamp.In(loc)

		switch e.Action {
		case timesheet.ActionClockIn:
			if open != nil {
				// Correction boundary: the previous shift closes at
				// zero duration.
				end := open.StartAt
				open.EndAt = &end
				shifts = append(shifts, *open)
			}
			open = &timesheet.Shift{
				StaffID: staffID,
				Date:    local.Format(dateLayout),
				StartAt: local,
			}

		case timesheet.ActionClockOut:
			if open == nil {
				end := local
				shifts = append(shifts, timesheet.Shift{
					StaffID: staffID,
					Date:    local.Format(dateLayout),
					StartAt: local,
					EndAt:   &end,
					Invalid: true,
				})
				continue
			}
			if local.Before(open.StartAt) {
				end := local
				open.EndAt = &end
				open.Invalid = true
			} else {
				end := local
				open.EndAt = &end
				open.WorkedMinutes = int(end.Sub(open.StartAt).Minutes())
			}
			shifts = append(shifts, *open)
			open = nil
		}
	}
	if open != nil {
		// Still clocked in; contributes nothing until resolved.
		shifts = append(shifts, *open)
	}

	ts := timesheet.StaffTimesheet{
		StaffID:    staffID,
		Year:       year,
		Month:      month,
		DayMinutes: make(map[string]int),
	}

	mKey := monthKey(year, month)

	// Keep only shifts in weeks that touch the target month; the extra
	// buffer days exist to close pairings, not to be reported.
	weekMinutes := make(map[string]int)
	for _, sh := range shifts {
		start, _ := time.ParseInLocation(dateLayout, sh.Date, loc)
		wk := mondayOf(start)
		if !weekTouchesMonth(wk, mKey) {
			continue
		}
		ts.Shifts = append(ts.Shifts, sh)
		if sh.Invalid || sh.Open() {
			continue
		}
		ts.DayMinutes[sh.Date] += sh.WorkedMinutes
		weekMinutes[wk.Format(dateLayout)] += sh.WorkedMinutes
	}

	weekStarts := make([]string, 0, len(weekMinutes))
	for wk := range weekMinutes {
		weekStarts = append(weekStarts, wk)
	}
	sort.Strings(weekStarts)

	for _, wk := range weekStarts {
		total := weekMinutes[wk]
		ot := total - timesheet.WeeklyOvertimeThresholdMinutes
		if ot < 0 {
			ot = 0
		}
		ts.Weeks = append(ts.Weeks, timesheet.WeeklyBucket{
			StaffID:         staffID,
			WeekStart:       wk,
			TotalMinutes:    total,
			OvertimeMinutes: ot,
		})
		allocateOvertime(ts.Shifts, wk, ot, loc)
	}

	return ts
}

// weekTouchesMonth reports whether the week starting at wk has at least
// one day inside the month identified by mKey ("2006-01").
func weekTouchesMonth(wk time.Time, mKey string) bool {
	for d := 0; d < 7; d++ {
		if wk.AddDate(0, 0, d).Format(dateLayout)[:7] == mKey {
			return true
		}
	}
	return false
}

// allocateOvertime distributes a week's overtime minutes over that
// week's shifts for display, starting from the latest shift and walking
// backwards. The allocation conserves the weekly total exactly; the
// weekly bucket stays authoritative for pay.
func allocateOvertime(shifts []timesheet.Shift, weekStart string, overtime int, loc *time.Location) {
	if overtime == 0 {
		return
	}

	remaining := overtime
	for i := len(shifts) - 1; i >= 0 && remaining > 0; i-- {
		sh := &shifts[i]
		if sh.Invalid || sh.Open() || sh.WorkedMinutes == 0 {
			continue
		}
		start, _ := time.ParseInLocation(dateLayout, sh.Date, loc)
		if mondayOf(start).Format(dateLayout) != weekStart {
			continue
		}
		share := sh.WorkedMinutes
		if share > remaining {
			share = remaining
		}
		sh.OvertimeMinutes = share
		remaining -= share
	}
}
