package payroll

import (
	"github.com/lengolf/lengolf-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

// ========== MONTHLY PAYROLL DTOs ==========

type EntryResponse struct {
	StaffID         string          `json:"staff_id"`
	StaffName       string          `json:"staff_name"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	WorkingDays     int             `json:"working_days"`
	TotalAllowance  decimal.Decimal `json:"total_allowance"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	HolidayMinutes  int             `json:"holiday_minutes"`
	HolidayPay      decimal.Decimal `json:"holiday_pay"`
	ServiceCharge   decimal.Decimal `json:"service_charge"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
}

type FailureResponse struct {
	StaffID string `json:"staff_id"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

type SummaryResponse struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	StaffComputed      int             `json:"staff_computed"`
	StaffFailed        int             `json:"staff_failed"`
	EligibleStaffCount int             `json:"eligible_staff_count"`
	TotalBaseSalary    decimal.Decimal `json:"total_base_salary"`
	TotalAllowance     decimal.Decimal `json:"total_allowance"`
	TotalOvertimePay   decimal.Decimal `json:"total_overtime_pay"`
	TotalHolidayPay    decimal.Decimal `json:"total_holiday_pay"`
	TotalServiceCharge decimal.Decimal `json:"total_service_charge"`
	TotalPayout        decimal.Decimal `json:"total_payout"`
}

type MonthlyPayrollResponse struct {
	Summary       SummaryResponse                 `json:"summary"`
	PerStaff      []EntryResponse                 `json:"per_staff"`
	ReviewEntries []timesheet.ReviewEntryResponse `json:"review_entries"`
	Failures      []FailureResponse               `json:"failures"`
}

type PeriodRequest struct {
	Year  int
	Month int
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four-digit year"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== COMPENSATION SETTING DTOs ==========

type CompensationSettingResponse struct {
	ID                      string          `json:"id"`
	StaffID                 string          `json:"staff_id"`
	BaseSalary              decimal.Decimal `json:"base_salary"`
	OTRatePerHour           decimal.Decimal `json:"ot_rate_per_hour"`
	HolidayRatePerHour      decimal.Decimal `json:"holiday_rate_per_hour"`
	IsServiceChargeEligible bool            `json:"is_service_charge_eligible"`
	EffectiveFrom           string          `json:"effective_from"`
	EffectiveTo             *string         `json:"effective_to,omitempty"`
}

type CreateCompensationSettingRequest struct {
	StaffID                 string          `json:"-"`
	BaseSalary              decimal.Decimal `json:"base_salary"`
	OTRatePerHour           decimal.Decimal `json:"ot_rate_per_hour"`
	HolidayRatePerHour      decimal.Decimal `json:"holiday_rate_per_hour"`
	IsServiceChargeEligible bool            `json:"is_service_charge_eligible"`
	EffectiveFrom           string          `json:"effective_from"` // "2006-01-02"
}

func (r *CreateCompensationSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.OTRatePerHour.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "ot_rate_per_hour", Message: "must be non-negative"})
	}
	if r.HolidayRatePerHour.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "holiday_rate_per_hour", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a YYYY-MM-DD date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== HOLIDAY DTOs ==========

type PublicHolidayResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type CreatePublicHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreatePublicHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a YYYY-MM-DD date"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePublicHolidayRequest struct {
	ID       string
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ========== SETTINGS DTOs ==========

type DailyAllowanceResponse struct {
	DailyAllowance decimal.Decimal `json:"daily_allowance"`
}

type UpdateDailyAllowanceRequest struct {
	DailyAllowance decimal.Decimal `json:"daily_allowance"`
}

func (r *UpdateDailyAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DailyAllowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "daily_allowance", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ServiceChargeResponse struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type UpsertServiceChargeRequest struct {
	Year        int             `json:"-"`
	Month       int             `json:"-"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (r *UpsertServiceChargeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four-digit year"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.TotalAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
