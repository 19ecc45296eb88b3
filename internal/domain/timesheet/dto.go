package timesheet

import (
	"github.com/lengolf/lengolf-backend-go/internal/pkg/validator"
)

// ========== TIME ENTRY DTOs ==========

type TimeEntryResponse struct {
	ID            string  `json:"id"`
	StaffID       string  `json:"staff_id"`
	Action        string  `json:"action"`
	Timestamp     string  `json:"timestamp"`
	PhotoCaptured bool    `json:"photo_captured"`
	DeviceInfo    *string `json:"device_info,omitempty"`
}

type ListTimeEntriesFilter struct {
	StaffID string
	From    string // "2006-01-02", inclusive
	To      string // "2006-01-02", inclusive
}

func (f *ListTimeEntriesFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(f.From); !ok {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "must be a YYYY-MM-DD date"})
	}
	if _, ok := validator.IsValidDate(f.To); !ok {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must be a YYYY-MM-DD date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateTimeEntryRequest is the administrative correction path. The
// entry keeps its identity; only the recorded moment or action can be
// amended, and every change writes an audit row.
type UpdateTimeEntryRequest struct {
	ID        string
	Timestamp *string `json:"timestamp,omitempty"` // RFC3339
	Action    *string `json:"action,omitempty"`
	Note      *string `json:"note,omitempty"`
	EditedBy  string  `json:"edited_by"`
}

func (r *UpdateTimeEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Timestamp == nil && r.Action == nil {
		errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "at least one of timestamp or action is required"})
	}
	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.Action != nil && *r.Action != string(ActionClockIn) && *r.Action != string(ActionClockOut) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be 'clock_in' or 'clock_out'"})
	}
	if validator.IsEmpty(r.EditedBy) {
		errs = append(errs, validator.ValidationError{Field: "edited_by", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== DERIVED DTOs ==========

type ShiftResponse struct {
	StaffID         string  `json:"staff_id"`
	Date            string  `json:"date"`
	StartAt         string  `json:"start_at"`
	EndAt           *string `json:"end_at,omitempty"`
	WorkedMinutes   int     `json:"worked_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Open            bool    `json:"open"`
	Invalid         bool    `json:"invalid,omitempty"`
}

type WeeklyBucketResponse struct {
	StaffID         string `json:"staff_id"`
	WeekStart       string `json:"week_start"`
	TotalMinutes    int    `json:"total_minutes"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

type StaffTimesheetResponse struct {
	StaffID    string                 `json:"staff_id"`
	Year       int                    `json:"year"`
	Month      int                    `json:"month"`
	Shifts     []ShiftResponse        `json:"shifts"`
	DayMinutes map[string]int         `json:"day_minutes"`
	Weeks      []WeeklyBucketResponse `json:"weeks"`
}

type ReviewEntryResponse struct {
	StaffID       string  `json:"staff_id"`
	Date          string  `json:"date"`
	StartAt       string  `json:"start_at"`
	EndAt         *string `json:"end_at,omitempty"`
	Reason        string  `json:"reason"`
	WorkedMinutes int     `json:"worked_minutes"`
}
