package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
)

// CalculatorInputs carries everything one staff member's month needs.
// Settings are fetched once per run and passed in explicitly so the
// calculation stays deterministic and testable in isolation.
type CalculatorInputs struct {
	Timesheet      timesheet.StaffTimesheet
	Setting        payroll.CompensationSetting
	Holidays       []payroll.PublicHoliday
	DailyAllowance decimal.Decimal

	// ServiceCharge is this staff member's already-divided share; zero
	// when ineligible or when the eligible roster is empty.
	ServiceCharge decimal.Decimal
}

// Calculate produces one staff member's payroll entry. Rules, in order:
//
//  1. working days = days in the month with >= 6 worked hours; each
//     earns the daily allowance
//  2. overtime = the weekly buckets' overtime summed into the month
//     that owns the week's Monday, paid at the OT rate
//  3. holiday pay = every minute worked on an active holiday date, paid
//     at the holiday rate on top of normal accounting
//  4. service charge = the pre-divided share passed in
//  5. total payout = base salary + allowance + OT pay + holiday pay +
//     service charge
//
// Attributing a week to the month of its Monday means every calendar
// week is counted toward exactly one month: no boundary week is double
// counted or dropped.
func Calculate(in CalculatorInputs) payroll.Entry {
	ts := in.Timesheet
	mKey := periodKey(ts.Year, ts.Month)

	workingDays := 0
	for date, minutes := range ts.DayMinutes {
		if strings.HasPrefix(date, mKey) && minutes >= timesheet.WorkingDayMinimumMinutes {
			workingDays++
		}
	}
	totalAllowance := in.DailyAllowance.Mul(decimal.NewFromInt(int64(workingDays)))

	overtimeMinutes := 0
	for _, wk := range ts.Weeks {
		if strings.HasPrefix(wk.WeekStart, mKey) {
			overtimeMinutes += wk.OvertimeMinutes
		}
	}
	overtimePay := in.Setting.OTRatePerHour.Mul(minutesToHours(overtimeMinutes)).Round(2)

	holidayMinutes := 0
	seen := make(map[string]bool)
	for _, h := range in.Holidays {
		if !h.IsActive || seen[h.Date] || !strings.HasPrefix(h.Date, mKey) {
			continue
		}
		seen[h.Date] = true
		holidayMinutes += ts.DayMinutes[h.Date]
	}
	holidayPay := in.Setting.HolidayRatePerHour.Mul(minutesToHours(holidayMinutes)).Round(2)

	totalPayout := in.Setting.BaseSalary.
		Add(totalAllowance).
		Add(overtimePay).
		Add(holidayPay).
		Add(in.ServiceCharge)

	return payroll.Entry{
		StaffID:         ts.StaffID,
		Year:            ts.Year,
		Month:           ts.Month,
		BaseSalary:      in.Setting.BaseSalary,
		WorkingDays:     workingDays,
		TotalAllowance:  totalAllowance,
		OvertimeMinutes: overtimeMinutes,
		OvertimePay:     overtimePay,
		HolidayMinutes:  holidayMinutes,
		HolidayPay:      holidayPay,
		ServiceCharge:   in.ServiceCharge,
		TotalPayout:     totalPayout,
	}
}

// MonthShiftCount counts the staff member's recorded shifts inside the
// target month. Open shifts count (they are recorded); invalid
// pairings do not.
func MonthShiftCount(ts timesheet.StaffTimesheet) int {
	mKey := periodKey(ts.Year, ts.Month)
	n := 0
	for _, sh := range ts.Shifts {
		if !sh.Invalid && strings.HasPrefix(sh.Date, mKey) {
			n++
		}
	}
	return n
}

// ServiceChargeShare divides the month's pot equally among the eligible
// roster. A zero count resolves to zero for everyone; the division is
// never attempted.
func ServiceChargeShare(total decimal.Decimal, eligibleCount int) decimal.Decimal {
	if eligibleCount <= 0 || total.IsZero() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(eligibleCount))).Round(2)
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

func periodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
