package payroll

import "errors"

var (
	// ErrMissingCompensationSettings means a staff member active in the
	// month has no setting effective at month-end. The calculator fails
	// fast for that staff instead of defaulting pay to zero.
	ErrMissingCompensationSettings = errors.New("no compensation setting effective at month-end")

	ErrCompensationSettingNotFound = errors.New("compensation setting not found")
	ErrHolidayNotFound             = errors.New("public holiday not found")
	ErrHolidayDateExists           = errors.New("a public holiday already exists on this date")
	ErrServiceChargeNotFound       = errors.New("no service charge recorded for this month")
	ErrInvalidPeriod               = errors.New("invalid payroll period")
	ErrEffectiveRangeOverlap       = errors.New("compensation setting effective range overlaps an existing row")
	ErrNothingToUpdate             = errors.New("no updatable fields provided")
)
