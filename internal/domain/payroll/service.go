package payroll

import (
	"context"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

// PayrollService computes monthly compensation and owns the settings
// the computation reads. The engine never writes derived data back;
// re-running with unchanged inputs yields identical output.
type PayrollService interface {
	// ComputeMonthlyPayroll runs the calculator for every active staff
	// member, collecting per-staff failures instead of aborting
	ComputeMonthlyPayroll(ctx context.Context, year, month int) (MonthlyPayrollResponse, error)

	// ComputeReviewEntries returns only the flagged shifts for the month
	ComputeReviewEntries(ctx context.Context, year, month int) ([]timesheet.ReviewEntryResponse, error)

	// Compensation settings
	ListCompensationSettings(ctx context.Context, staffID string) ([]CompensationSettingResponse, error)
	CreateCompensationSetting(ctx context.Context, req CreateCompensationSettingRequest) (CompensationSettingResponse, error)

	// Holiday calendar
	ListPublicHolidays(ctx context.Context, year, month int) ([]PublicHolidayResponse, error)
	CreatePublicHoliday(ctx context.Context, req CreatePublicHolidayRequest) (PublicHolidayResponse, error)
	UpdatePublicHoliday(ctx context.Context, req UpdatePublicHolidayRequest) error

	// Process-wide settings
	GetDailyAllowance(ctx context.Context) (DailyAllowanceResponse, error)
	UpdateDailyAllowance(ctx context.Context, req UpdateDailyAllowanceRequest) (DailyAllowanceResponse, error)
	GetServiceCharge(ctx context.Context, year, month int) (ServiceChargeResponse, error)
	UpsertServiceCharge(ctx context.Context, req UpsertServiceChargeRequest) (ServiceChargeResponse, error)
}
