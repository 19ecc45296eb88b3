package timesheet

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access methods for raw clock
// entries. The log is append-only from the terminals; the only write
// the engine owns is the audited administrative correction.
type TimeEntryRepository interface {
	// GetByID retrieves a single entry
	GetByID(ctx context.Context, id string) (TimeEntry, error)

	// ListByStaffBetween retrieves one staff member's entries with
	// from <= timestamp < to, ordered by timestamp
	ListByStaffBetween(ctx context.Context, staffID string, from, to time.Time) ([]TimeEntry, error)

	// UpdateWithAudit applies an administrative correction and writes
	// the audit row in the same transaction
	UpdateWithAudit(ctx context.Context, entry TimeEntry, audit TimeEntryAudit) (TimeEntry, error)
}
