package timesheet

import "errors"

// Timesheet domain errors
var (
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrInvalidTimeEntry  = errors.New("time entry is logically impossible")
	ErrNothingToUpdate   = errors.New("no updatable fields provided")
)
