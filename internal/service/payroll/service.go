package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/domain/staff"
	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/cache"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/retry"
	tsservice "github.com/lengolf/lengolf-backend-go/internal/service/timesheet"
)

// maxConcurrentStaff bounds the assembler's fan-out. Computations are
// independent reads, so parallelism is safe; the limit just protects
// the connection pool.
const maxConcurrentStaff = 4

type PayrollServiceImpl struct {
	staffRepo    staff.StaffRepository
	settingsRepo payroll.SettingsRepository
	timesheets   timesheet.TimesheetService
	cache        *cache.Store
	loc          *time.Location
	retry        retry.Policy
}

func NewPayrollService(
	staffRepo staff.StaffRepository,
	settingsRepo payroll.SettingsRepository,
	timesheets timesheet.TimesheetService,
	store *cache.Store,
	loc *time.Location,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		staffRepo:    staffRepo,
		settingsRepo: settingsRepo,
		timesheets:   timesheets,
		cache:        store,
		loc:          loc,
		retry:        retry.DefaultPolicy(),
	}
}

// staffMonth is one staff member's phase-one result: the aggregated
// timesheet and the effective setting, or the failure that stops this
// staff member (never the batch).
type staffMonth struct {
	staff     staff.Staff
	timesheet timesheet.StaffTimesheet
	setting   payroll.CompensationSetting
	failure   *payroll.Failure
}

// ComputeMonthlyPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeMonthlyPayroll(ctx context.Context, year, month int) (payroll.MonthlyPayrollResponse, error) {
	period := payroll.PeriodRequest{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return payroll.MonthlyPayrollResponse{}, err
	}

	roster, err := s.listRoster(ctx)
	if err != nil {
		return payroll.MonthlyPayrollResponse{}, err
	}

	allowance, holidays, pot, err := s.loadMonthSettings(ctx, year, month)
	if err != nil {
		return payroll.MonthlyPayrollResponse{}, err
	}

	// Phase one: aggregate every staff member's month and resolve the
	// setting effective at month-end. Failures are collected, not
	// propagated.
	months := s.collectStaffMonths(ctx, roster, year, month)

	// Phase two needs the whole roster first: the service-charge share
	// divides by the count of eligible staff with at least one shift.
	eligibleCount := 0
	for _, sm := range months {
		if sm.failure == nil && sm.setting.IsServiceChargeEligible && MonthShiftCount(sm.timesheet) > 0 {
			eligibleCount++
		}
	}
	share := ServiceChargeShare(pot, eligibleCount)

	resp := payroll.MonthlyPayrollResponse{
		Summary: payroll.SummaryResponse{
			Year:               year,
			Month:              month,
			EligibleStaffCount: eligibleCount,
			TotalBaseSalary:    decimal.Zero,
			TotalAllowance:     decimal.Zero,
			TotalOvertimePay:   decimal.Zero,
			TotalHolidayPay:    decimal.Zero,
			TotalServiceCharge: decimal.Zero,
			TotalPayout:        decimal.Zero,
		},
		PerStaff:      []payroll.EntryResponse{},
		ReviewEntries: []timesheet.ReviewEntryResponse{},
		Failures:      []payroll.FailureResponse{},
	}

	for _, sm := range months {
		if sm.failure != nil {
			resp.Failures = append(resp.Failures, payroll.FailureResponse{
				StaffID: sm.failure.StaffID,
				Reason:  string(sm.failure.Reason),
				Message: sm.failure.Message,
			})
			continue
		}

		charge := decimal.Zero
		if sm.setting.IsServiceChargeEligible && MonthShiftCount(sm.timesheet) > 0 {
			charge = share
		}

		entry := Calculate(CalculatorInputs{
			Timesheet:      sm.timesheet,
			Setting:        sm.setting,
			Holidays:       holidays,
			DailyAllowance: allowance,
			ServiceCharge:  charge,
		})
		entry.StaffName = sm.staff.Name

		resp.PerStaff = append(resp.PerStaff, mapToEntryResponse(entry))
		for _, re := range tsservice.Classify(sm.timesheet) {
			resp.ReviewEntries = append(resp.ReviewEntries, mapToReviewResponse(re))
		}

		resp.Summary.TotalBaseSalary = resp.Summary.TotalBaseSalary.Add(entry.BaseSalary)
		resp.Summary.TotalAllowance = resp.Summary.TotalAllowance.Add(entry.TotalAllowance)
		resp.Summary.TotalOvertimePay = resp.Summary.TotalOvertimePay.Add(entry.OvertimePay)
		resp.Summary.TotalHolidayPay = resp.Summary.TotalHolidayPay.Add(entry.HolidayPay)
		resp.Summary.TotalServiceCharge = resp.Summary.TotalServiceCharge.Add(entry.ServiceCharge)
		resp.Summary.TotalPayout = resp.Summary.TotalPayout.Add(entry.TotalPayout)
	}

	resp.Summary.StaffComputed = len(resp.PerStaff)
	resp.Summary.StaffFailed = len(resp.Failures)
	return resp, nil
}

// ComputeReviewEntries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeReviewEntries(ctx context.Context, year, month int) ([]timesheet.ReviewEntryResponse, error) {
	period := payroll.PeriodRequest{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	roster, err := s.listRoster(ctx)
	if err != nil {
		return nil, err
	}

	result := []timesheet.ReviewEntryResponse{}
	for _, member := range roster {
		entries, err := s.timesheets.MonthReviewEntries(ctx, member.ID, year, month)
		if err != nil {
			return nil, fmt.Errorf("failed to classify staff %s: %w", member.ID, err)
		}
		for _, re := range entries {
			result = append(result, mapToReviewResponse(re))
		}
	}
	return result, nil
}

// collectStaffMonths fans out phase one across the roster. Workers
// never return an error: a staff member that cannot be computed becomes
// a Failure in their slot. Roster order is preserved by indexed writes,
// so repeated runs with unchanged inputs are identical.
func (s *PayrollServiceImpl) collectStaffMonths(ctx context.Context, roster []staff.Staff, year, month int) []staffMonth {
	monthEnd := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, s.loc)

	months := make([]staffMonth, len(roster))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStaff)

	for i, member := range roster {
		i, member := i, member
		g.Go(func() error {
			sm := staffMonth{staff: member}

			ts, err := s.timesheets.MonthTimesheet(gctx, member.ID, year, month)
			if err != nil {
				sm.failure = &payroll.Failure{
					StaffID: member.ID,
					Reason:  payroll.FailureStoreError,
					Message: err.Error(),
				}
				months[i] = sm
				return nil
			}
			sm.timesheet = ts

			var setting payroll.CompensationSetting
			err = retry.Do(gctx, s.retry, func(ctx context.Context) error {
				var getErr error
				setting, getErr = s.settingsRepo.GetCompensationSetting(ctx, member.ID, monthEnd)
				if errors.Is(getErr, payroll.ErrMissingCompensationSettings) {
					return retry.Permanent(getErr)
				}
				return getErr
			})
			if err != nil {
				reason := payroll.FailureStoreError
				if errors.Is(err, payroll.ErrMissingCompensationSettings) {
					reason = payroll.FailureMissingCompensationSettings
				}
				sm.failure = &payroll.Failure{
					StaffID: member.ID,
					Reason:  reason,
					Message: err.Error(),
				}
				months[i] = sm
				return nil
			}
			sm.setting = setting

			months[i] = sm
			return nil
		})
	}
	_ = g.Wait()

	return months
}

func (s *PayrollServiceImpl) listRoster(ctx context.Context) ([]staff.Staff, error) {
	var roster []staff.Staff
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		roster, listErr = s.staffRepo.ListActive(ctx)
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}

	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	return roster, nil
}

func (s *PayrollServiceImpl) loadMonthSettings(ctx context.Context, year, month int) (decimal.Decimal, []payroll.PublicHoliday, decimal.Decimal, error) {
	var allowance decimal.Decimal
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var getErr error
		allowance, getErr = s.settingsRepo.GetDailyAllowance(ctx)
		return getErr
	})
	if err != nil {
		return decimal.Zero, nil, decimal.Zero, fmt.Errorf("failed to get daily allowance: %w", err)
	}

	var holidays []payroll.PublicHoliday
	err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		holidays, listErr = s.settingsRepo.ListPublicHolidays(ctx, year, month)
		return listErr
	})
	if err != nil {
		return decimal.Zero, nil, decimal.Zero, fmt.Errorf("failed to list public holidays: %w", err)
	}

	pot := decimal.Zero
	err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		charge, getErr := s.settingsRepo.GetMonthlyServiceCharge(ctx, year, month)
		if errors.Is(getErr, payroll.ErrServiceChargeNotFound) {
			// No pot recorded yet: everyone's share is zero.
			return nil
		}
		if getErr != nil {
			return getErr
		}
		pot = charge.TotalAmount
		return nil
	})
	if err != nil {
		return decimal.Zero, nil, decimal.Zero, fmt.Errorf("failed to get monthly service charge: %w", err)
	}

	return allowance, holidays, pot, nil
}

// ========== SETTINGS ==========

// ListCompensationSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListCompensationSettings(ctx context.Context, staffID string) ([]payroll.CompensationSettingResponse, error) {
	settings, err := s.settingsRepo.ListCompensationSettings(ctx, staffID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.CompensationSettingResponse, 0, len(settings))
	for _, setting := range settings {
		result = append(result, mapToSettingResponse(setting))
	}
	return result, nil
}

// CreateCompensationSetting implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateCompensationSetting(ctx context.Context, req payroll.CreateCompensationSettingRequest) (payroll.CompensationSettingResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CompensationSettingResponse{}, err
	}

	effectiveFrom, _ := time.ParseInLocation("2006-01-02", req.EffectiveFrom, s.loc)

	created, err := s.settingsRepo.CreateCompensationSetting(ctx, payroll.CompensationSetting{
		ID:                      uuid.New().String(),
		StaffID:                 req.StaffID,
		BaseSalary:              req.BaseSalary,
		OTRatePerHour:           req.OTRatePerHour,
		HolidayRatePerHour:      req.HolidayRatePerHour,
		IsServiceChargeEligible: req.IsServiceChargeEligible,
		EffectiveFrom:           effectiveFrom,
	})
	if err != nil {
		return payroll.CompensationSettingResponse{}, err
	}

	// A setting change re-prices existing months; drop anything cached
	// for this staff member from the effective date onward.
	s.invalidateStaffFrom(req.StaffID, effectiveFrom)

	return mapToSettingResponse(created), nil
}

// invalidateStaffFrom drops cached months for one staff member starting
// at the month before from (its buffer week can reach back) through the
// month after the current one.
func (s *PayrollServiceImpl) invalidateStaffFrom(staffID string, from time.Time) {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, -1, 0)
	now := time.Now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, 1, 0)

	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		s.cache.Invalidate(tsservice.CacheScope(staffID, m.Year(), int(m.Month())))
	}
}

// ========== HOLIDAYS ==========

// ListPublicHolidays implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPublicHolidays(ctx context.Context, year, month int) ([]payroll.PublicHolidayResponse, error) {
	period := payroll.PeriodRequest{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	holidays, err := s.settingsRepo.ListPublicHolidays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PublicHolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		result = append(result, payroll.PublicHolidayResponse{
			ID:       h.ID,
			Date:     h.Date,
			Name:     h.Name,
			IsActive: h.IsActive,
		})
	}
	return result, nil
}

// CreatePublicHoliday implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePublicHoliday(ctx context.Context, req payroll.CreatePublicHolidayRequest) (payroll.PublicHolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PublicHolidayResponse{}, err
	}

	created, err := s.settingsRepo.CreatePublicHoliday(ctx, payroll.PublicHoliday{
		ID:       uuid.New().String(),
		Date:     req.Date,
		Name:     req.Name,
		IsActive: true,
	})
	if err != nil {
		return payroll.PublicHolidayResponse{}, err
	}

	return payroll.PublicHolidayResponse{
		ID:       created.ID,
		Date:     created.Date,
		Name:     created.Name,
		IsActive: created.IsActive,
	}, nil
}

// UpdatePublicHoliday implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePublicHoliday(ctx context.Context, req payroll.UpdatePublicHolidayRequest) error {
	if req.Name == nil && req.IsActive == nil {
		return payroll.ErrNothingToUpdate
	}
	return s.settingsRepo.UpdatePublicHoliday(ctx, req)
}

// ========== PROCESS-WIDE SETTINGS ==========

// GetDailyAllowance implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDailyAllowance(ctx context.Context) (payroll.DailyAllowanceResponse, error) {
	allowance, err := s.settingsRepo.GetDailyAllowance(ctx)
	if err != nil {
		return payroll.DailyAllowanceResponse{}, err
	}
	return payroll.DailyAllowanceResponse{DailyAllowance: allowance}, nil
}

// UpdateDailyAllowance implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateDailyAllowance(ctx context.Context, req payroll.UpdateDailyAllowanceRequest) (payroll.DailyAllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DailyAllowanceResponse{}, err
	}

	if err := s.settingsRepo.UpdateDailyAllowance(ctx, req.DailyAllowance); err != nil {
		return payroll.DailyAllowanceResponse{}, err
	}
	return payroll.DailyAllowanceResponse{DailyAllowance: req.DailyAllowance}, nil
}

// GetServiceCharge implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetServiceCharge(ctx context.Context, year, month int) (payroll.ServiceChargeResponse, error) {
	period := payroll.PeriodRequest{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return payroll.ServiceChargeResponse{}, err
	}

	charge, err := s.settingsRepo.GetMonthlyServiceCharge(ctx, year, month)
	if err != nil {
		return payroll.ServiceChargeResponse{}, err
	}
	return payroll.ServiceChargeResponse{
		Year:        charge.Year,
		Month:       charge.Month,
		TotalAmount: charge.TotalAmount,
	}, nil
}

// UpsertServiceCharge implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpsertServiceCharge(ctx context.Context, req payroll.UpsertServiceChargeRequest) (payroll.ServiceChargeResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ServiceChargeResponse{}, err
	}

	saved, err := s.settingsRepo.UpsertMonthlyServiceCharge(ctx, payroll.MonthlyServiceCharge{
		Year:        req.Year,
		Month:       req.Month,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return payroll.ServiceChargeResponse{}, err
	}
	return payroll.ServiceChargeResponse{
		Year:        saved.Year,
		Month:       saved.Month,
		TotalAmount: saved.TotalAmount,
	}, nil
}

// ========== HELPERS ==========

func mapToEntryResponse(e payroll.Entry) payroll.EntryResponse {
	return payroll.EntryResponse{
		StaffID:         e.StaffID,
		StaffName:       e.StaffName,
		BaseSalary:      e.BaseSalary,
		WorkingDays:     e.WorkingDays,
		TotalAllowance:  e.TotalAllowance,
		OvertimeMinutes: e.OvertimeMinutes,
		OvertimePay:     e.OvertimePay,
		HolidayMinutes:  e.HolidayMinutes,
		HolidayPay:      e.HolidayPay,
		ServiceCharge:   e.ServiceCharge,
		TotalPayout:     e.TotalPayout,
	}
}

func mapToReviewResponse(re timesheet.ReviewEntry) timesheet.ReviewEntryResponse {
	var endAt *string
	if re.EndAt != nil {
		str := re.EndAt.Format(time.RFC3339)
		endAt = &str
	}
	return timesheet.ReviewEntryResponse{
		StaffID:       re.StaffID,
		Date:          re.Date,
		StartAt:       re.StartAt.Format(time.RFC3339),
		EndAt:         endAt,
		Reason:        string(re.Reason),
		WorkedMinutes: re.WorkedMinutes,
	}
}

func mapToSettingResponse(setting payroll.CompensationSetting) payroll.CompensationSettingResponse {
	var effectiveTo *string
	if setting.EffectiveTo != nil {
		str := setting.EffectiveTo.Format("2006-01-02")
		effectiveTo = &str
	}
	return payroll.CompensationSettingResponse{
		ID:                      setting.ID,
		StaffID:                 setting.StaffID,
		BaseSalary:              setting.BaseSalary,
		OTRatePerHour:           setting.OTRatePerHour,
		HolidayRatePerHour:      setting.HolidayRatePerHour,
		IsServiceChargeEligible: setting.IsServiceChargeEligible,
		EffectiveFrom:           setting.EffectiveFrom.Format("2006-01-02"),
		EffectiveTo:             effectiveTo,
	}
}
