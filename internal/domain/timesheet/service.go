package timesheet

import (
	"context"
)

// TimesheetService turns raw clock entries into shifts, daily totals
// and weekly buckets, and flags anomalous shifts for review.
type TimesheetService interface {
	// MonthTimesheet aggregates one staff member's month, including the
	// week-boundary buffer days needed for overtime
	MonthTimesheet(ctx context.Context, staffID string, year, month int) (StaffTimesheet, error)

	// MonthReviewEntries classifies one staff member's aggregated month
	MonthReviewEntries(ctx context.Context, staffID string, year, month int) ([]ReviewEntry, error)

	// MonthTimesheetReport maps one staff member's aggregated month for
	// the admin timesheet screen
	MonthTimesheetReport(ctx context.Context, staffID string, year, month int) (StaffTimesheetResponse, error)

	// ListEntries retrieves raw entries for the admin correction screen
	ListEntries(ctx context.Context, filter ListTimeEntriesFilter) ([]TimeEntryResponse, error)

	// CorrectEntry applies an audited administrative correction and
	// invalidates the affected cached months
	CorrectEntry(ctx context.Context, req UpdateTimeEntryRequest) (TimeEntryResponse, error)
}
