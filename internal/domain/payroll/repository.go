package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRepository defines data access for compensation settings, the
// holiday calendar, the process-wide daily allowance and the monthly
// service-charge pot.
type SettingsRepository interface {
	// GetCompensationSetting retrieves the setting effective for staffID
	// at asOf, or ErrMissingCompensationSettings when none is
	GetCompensationSetting(ctx context.Context, staffID string, asOf time.Time) (CompensationSetting, error)

	// ListCompensationSettings retrieves all of one staff member's
	// effective-dated rows, newest first
	ListCompensationSettings(ctx context.Context, staffID string) ([]CompensationSetting, error)

	// CreateCompensationSetting inserts a new row and closes the
	// previously open one at effective_from - 1 day
	CreateCompensationSetting(ctx context.Context, setting CompensationSetting) (CompensationSetting, error)

	// ListPublicHolidays retrieves the month's calendar entries,
	// active and inactive, ordered by date
	ListPublicHolidays(ctx context.Context, year, month int) ([]PublicHoliday, error)

	CreatePublicHoliday(ctx context.Context, holiday PublicHoliday) (PublicHoliday, error)
	UpdatePublicHoliday(ctx context.Context, req UpdatePublicHolidayRequest) error

	// GetDailyAllowance retrieves the process-wide per-working-day
	// allowance amount
	GetDailyAllowance(ctx context.Context) (decimal.Decimal, error)
	UpdateDailyAllowance(ctx context.Context, amount decimal.Decimal) error

	// GetMonthlyServiceCharge retrieves the month's pot, or
	// ErrServiceChargeNotFound when none was recorded
	GetMonthlyServiceCharge(ctx context.Context, year, month int) (MonthlyServiceCharge, error)
	UpsertMonthlyServiceCharge(ctx context.Context, charge MonthlyServiceCharge) (MonthlyServiceCharge, error)
}
