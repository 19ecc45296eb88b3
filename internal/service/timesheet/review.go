package timesheet

import (
	"strings"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

// Classify flags anomalous shifts in the target month. Reasons are
// checked in priority order and the first match wins per shift; a shift
// with no reason needs no human review. Classification is read-only:
// corrections happen in the raw entries and the month is simply re-run.
func Classify(ts timesheet.StaffTimesheet) []timesheet.ReviewEntry {
	mKey := monthKey(ts.Year, ts.Month)

	var entries []timesheet.ReviewEntry
	for _, sh := range ts.Shifts {
		if !strings.HasPrefix(sh.Date, mKey) {
			continue
		}

		reason, ok := classifyShift(sh, ts.DayMinutes[sh.Date])
		if !ok {
			continue
		}
		entries = append(entries, timesheet.ReviewEntry{
			StaffID:       sh.StaffID,
			Date:          sh.Date,
			StartAt:       sh.StartAt,
			EndAt:         sh.EndAt,
			Reason:        reason,
			WorkedMinutes: sh.WorkedMinutes,
		})
	}
	return entries
}

func classifyShift(sh timesheet.Shift, dayTotal int) (timesheet.ReviewReason, bool) {
	switch {
	case sh.Open():
		return timesheet.ReasonMissingClockOut, true
	case sh.Invalid:
		return timesheet.ReasonInvalidEntry, true
	case sh.WorkedMinutes < timesheet.ShortSessionMaxMinutes:
		return timesheet.ReasonShortSession, true
	case sh.WorkedMinutes > timesheet.LongSessionMinMinutes:
		return timesheet.ReasonLongSession, true
	case dayTotal < timesheet.ShortDayMaxMinutes:
		return timesheet.ReasonShortDay, true
	case dayTotal > timesheet.LongDayMinMinutes:
		return timesheet.ReasonLongDay, true
	}
	return "", false
}
