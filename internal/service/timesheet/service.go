package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/cache"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/retry"
)

const cacheKeyTimesheet = "timesheet"

type TimesheetServiceImpl struct {
	entryRepo timesheet.TimeEntryRepository
	cache     *cache.Store
	loc       *time.Location
	retry     retry.Policy
}

func NewTimesheetService(
	entryRepo timesheet.TimeEntryRepository,
	store *cache.Store,
	loc *time.Location,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		entryRepo: entryRepo,
		cache:     store,
		loc:       loc,
		retry:     retry.DefaultPolicy(),
	}
}

// CacheScope identifies one staff member's month in the memo store.
// Every writer that needs to invalidate cached aggregations must build
// the scope through this function.
func CacheScope(staffID string, year, month int) string {
	return fmt.Sprintf("staff:%s:%s", staffID, monthKey(year, month))
}

// MonthTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) MonthTimesheet(ctx context.Context, staffID string, year, month int) (timesheet.StaffTimesheet, error) {
	scope := CacheScope(staffID, year, month)
	if v, ok := s.cache.Get(scope, cacheKeyTimesheet); ok {
		if ts, ok := v.(timesheet.StaffTimesheet); ok {
			return ts, nil
		}
	}

	from, to := MonthWindow(year, month, s.loc)

	var entries []timesheet.TimeEntry
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		entries, listErr = s.entryRepo.ListByStaffBetween(ctx, staffID, from, to)
		return listErr
	})
	if err != nil {
		return timesheet.StaffTimesheet{}, fmt.Errorf("failed to list time entries for staff %s: %w", staffID, err)
	}

	ts := BuildTimesheet(staffID, year, month, entries, s.loc)
	s.cache.Set(scope, cacheKeyTimesheet, ts)
	return ts, nil
}

// MonthReviewEntries implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) MonthReviewEntries(ctx context.Context, staffID string, year, month int) ([]timesheet.ReviewEntry, error) {
	ts, err := s.MonthTimesheet(ctx, staffID, year, month)
	if err != nil {
		return nil, err
	}
	return Classify(ts), nil
}

// MonthTimesheetReport implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) MonthTimesheetReport(ctx context.Context, staffID string, year, month int) (timesheet.StaffTimesheetResponse, error) {
	ts, err := s.MonthTimesheet(ctx, staffID, year, month)
	if err != nil {
		return timesheet.StaffTimesheetResponse{}, err
	}

	resp := timesheet.StaffTimesheetResponse{
		StaffID:    ts.StaffID,
		Year:       ts.Year,
		Month:      ts.Month,
		Shifts:     make([]timesheet.ShiftResponse, 0, len(ts.Shifts)),
		DayMinutes: ts.DayMinutes,
		Weeks:      make([]timesheet.WeeklyBucketResponse, 0, len(ts.Weeks)),
	}
	for _, sh := range ts.Shifts {
		var endAt *string
		if sh.EndAt != nil {
			str := sh.EndAt.Format(time.RFC3339)
			endAt = &str
		}
		resp.Shifts = append(resp.Shifts, timesheet.ShiftResponse{
			StaffID:         sh.StaffID,
			Date:            sh.Date,
			StartAt:         sh.StartAt.Format(time.RFC3339),
			EndAt:           endAt,
			WorkedMinutes:   sh.WorkedMinutes,
			OvertimeMinutes: sh.OvertimeMinutes,
			Open:            sh.Open(),
			Invalid:         sh.Invalid,
		})
	}
	for _, wk := range ts.Weeks {
		resp.Weeks = append(resp.Weeks, timesheet.WeeklyBucketResponse{
			StaffID:         wk.StaffID,
			WeekStart:       wk.WeekStart,
			TotalMinutes:    wk.TotalMinutes,
			OvertimeMinutes: wk.OvertimeMinutes,
		})
	}
	return resp, nil
}

// ListEntries implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListEntries(ctx context.Context, filter timesheet.ListTimeEntriesFilter) ([]timesheet.TimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from, _ := time.ParseInLocation(dateLayout, filter.From, s.loc)
	to, _ := time.ParseInLocation(dateLayout, filter.To, s.loc)
	to = to.AddDate(0, 0, 1) // inclusive upper bound

	var entries []timesheet.TimeEntry
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		entries, listErr = s.entryRepo.ListByStaffBetween(ctx, filter.StaffID, from, to)
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	result := make([]timesheet.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapToEntryResponse(e, s.loc))
	}
	return result, nil
}

// CorrectEntry implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) CorrectEntry(ctx context.Context, req timesheet.UpdateTimeEntryRequest) (timesheet.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	current, err := s.entryRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, timesheet.ErrTimeEntryNotFound) {
			return timesheet.TimeEntryResponse{}, err
		}
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to load time entry %s: %w", req.ID, err)
	}

	updated := current
	if req.Timestamp != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.Timestamp)
		if parseErr != nil {
			return timesheet.TimeEntryResponse{}, timesheet.ErrInvalidTimeEntry
		}
		updated.Timestamp = parsed
	}
	if req.Action != nil {
		updated.Action = timesheet.Action(*req.Action)
	}

	audit := timesheet.TimeEntryAudit{
		ID:           uuid.New().String(),
		TimeEntryID:  current.ID,
		StaffID:      current.StaffID,
		OldTimestamp: current.Timestamp,
		NewTimestamp: updated.Timestamp,
		OldAction:    current.Action,
		NewAction:    updated.Action,
		EditedBy:     req.EditedBy,
		Note:         req.Note,
	}

	saved, err := s.entryRepo.UpdateWithAudit(ctx, updated, audit)
	if err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to correct time entry %s: %w", req.ID, err)
	}

	// Both the old and the new position of the entry can sit in a
	// month-boundary buffer week, so invalidate the neighbours too.
	s.invalidateAround(current.StaffID, current.Timestamp)
	s.invalidateAround(saved.StaffID, saved.Timestamp)

	return mapToEntryResponse(saved, s.loc), nil
}

// invalidateAround drops the cached month containing ts plus the two
// adjacent months, whose week-boundary buffers may include the entry.
func (s *TimesheetServiceImpl) invalidateAround(staffID string, ts time.Time) {
	local := ts.In(s.loc)
	for _, delta := range []int{-1, 0, 1} {
		m := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, delta, 0)
		s.cache.Invalidate(CacheScope(staffID, m.Year(), int(m.Month())))
	}
}

func mapToEntryResponse(e timesheet.TimeEntry, loc *time.Location) timesheet.TimeEntryResponse {
	return timesheet.TimeEntryResponse{
		ID:            e.ID,
		StaffID:       e.StaffID,
		Action:        string(e.Action),
		Timestamp:     e.Timestamp.In(loc).Format(time.RFC3339),
		PhotoCaptured: e.PhotoCaptured,
		DeviceInfo:    e.DeviceInfo,
	}
}
