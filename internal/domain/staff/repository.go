package staff

import "context"

// StaffRepository defines data access methods for the academy's staff
// roster. The roster itself is maintained elsewhere; the payroll engine
// only reads it.
type StaffRepository interface {
	// GetByID retrieves a staff member by ID
	GetByID(ctx context.Context, id string) (Staff, error)

	// ListActive retrieves all active staff members ordered by ID
	ListActive(ctx context.Context) ([]Staff, error)
}
