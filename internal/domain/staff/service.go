package staff

import "context"

// StaffService exposes the read-only roster to the admin surface.
type StaffService interface {
	// GetStaff retrieves one staff member by ID
	GetStaff(ctx context.Context, id string) (StaffResponse, error)

	// ListActiveStaff retrieves the active roster ordered by ID
	ListActiveStaff(ctx context.Context) ([]StaffResponse, error)
}
