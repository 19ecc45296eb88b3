package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompensationSetting - effective-dated pay terms for one staff member.
// For any (staff, date) at most one row is effective; the month's
// calculation uses the row effective at month-end, not a pro-rated
// blend.
type CompensationSetting struct {
	ID                      string
	StaffID                 string
	BaseSalary              decimal.Decimal
	OTRatePerHour           decimal.Decimal
	HolidayRatePerHour      decimal.Decimal
	IsServiceChargeEligible bool
	EffectiveFrom           time.Time
	EffectiveTo             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// PublicHoliday - one calendar entry. All hours worked on an active
// holiday earn the holiday rate on top of normal accounting.
type PublicHoliday struct {
	ID       string
	Date     string // "2006-01-02"
	Name     string
	IsActive bool
}

// MonthlyServiceCharge - the month's pooled bonus amount, split equally
// among eligible staff who worked at least one shift.
type MonthlyServiceCharge struct {
	Year        int
	Month       int
	TotalAmount decimal.Decimal
}

// Entry - one staff member's computed payroll for one month. Derived on
// demand; the raw entries and settings stay authoritative.
type Entry struct {
	StaffID         string
	StaffName       string
	Year            int
	Month           int
	BaseSalary      decimal.Decimal
	WorkingDays     int
	TotalAllowance  decimal.Decimal
	OvertimeMinutes int
	OvertimePay     decimal.Decimal
	HolidayMinutes  int
	HolidayPay      decimal.Decimal
	ServiceCharge   decimal.Decimal
	TotalPayout     decimal.Decimal
}

// FailureReason enum
type FailureReason string

const (
	FailureMissingCompensationSettings FailureReason = "missing_compensation_settings"
	FailureStoreError                  FailureReason = "store_error"
)

// Failure - one staff member the month's run could not compute. The
// rest of the batch is unaffected.
type Failure struct {
	StaffID string
	Reason  FailureReason
	Message string
}
