package response

import (
	"errors"
	"net/http"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/domain/staff"
	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff not found")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timesheet.ErrInvalidTimeEntry):
		BadRequest(w, "Invalid time entry", nil)
	case errors.Is(err, timesheet.ErrNothingToUpdate):
		BadRequest(w, "Nothing to update", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrMissingCompensationSettings):
		NotFound(w, "No compensation settings effective for the period")
	case errors.Is(err, payroll.ErrCompensationSettingNotFound):
		NotFound(w, "Compensation setting not found")
	case errors.Is(err, payroll.ErrEffectiveRangeOverlap):
		Conflict(w, "Effective date overlaps an existing setting")
	case errors.Is(err, payroll.ErrHolidayNotFound):
		NotFound(w, "Public holiday not found")
	case errors.Is(err, payroll.ErrHolidayDateExists):
		Conflict(w, "A holiday already exists on that date")
	case errors.Is(err, payroll.ErrServiceChargeNotFound):
		NotFound(w, "No service charge recorded for the period")
	case errors.Is(err, payroll.ErrNothingToUpdate):
		BadRequest(w, "Nothing to update", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
