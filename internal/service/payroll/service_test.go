package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/domain/staff"
	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/cache"
	tsservice "github.com/lengolf/lengolf-backend-go/internal/service/timesheet"
)

// ===== FAKES =====

type fakeStaffRepo struct {
	roster []staff.Staff
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	for _, m := range r.roster {
		if m.ID == id {
			return m, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (r *fakeStaffRepo) ListActive(ctx context.Context) ([]staff.Staff, error) {
	return r.roster, nil
}

type fakeSettingsRepo struct {
	settings  map[string]payroll.CompensationSetting
	holidays  []payroll.PublicHoliday
	allowance decimal.Decimal
	pot       *payroll.MonthlyServiceCharge
}

func (r *fakeSettingsRepo) GetCompensationSetting(ctx context.Context, staffID string, asOf time.Time) (payroll.CompensationSetting, error) {
	s, ok := r.settings[staffID]
	if !ok {
		return payroll.CompensationSetting{}, payroll.ErrMissingCompensationSettings
	}
	return s, nil
}

func (r *fakeSettingsRepo) ListCompensationSettings(ctx context.Context, staffID string) ([]payroll.CompensationSetting, error) {
	s, ok := r.settings[staffID]
	if !ok {
		return nil, nil
	}
	return []payroll.CompensationSetting{s}, nil
}

func (r *fakeSettingsRepo) CreateCompensationSetting(ctx context.Context, setting payroll.CompensationSetting) (payroll.CompensationSetting, error) {
	if r.settings == nil {
		r.settings = make(map[string]payroll.CompensationSetting)
	}
	r.settings[setting.StaffID] = setting
	return setting, nil
}

func (r *fakeSettingsRepo) ListPublicHolidays(ctx context.Context, year, month int) ([]payroll.PublicHoliday, error) {
	return r.holidays, nil
}

func (r *fakeSettingsRepo) CreatePublicHoliday(ctx context.Context, holiday payroll.PublicHoliday) (payroll.PublicHoliday, error) {
	r.holidays = append(r.holidays, holiday)
	return holiday, nil
}

func (r *fakeSettingsRepo) UpdatePublicHoliday(ctx context.Context, req payroll.UpdatePublicHolidayRequest) error {
	for i := range r.holidays {
		if r.holidays[i].ID == req.ID {
			if req.Name != nil {
				r.holidays[i].Name = *req.Name
			}
			if req.IsActive != nil {
				r.holidays[i].IsActive = *req.IsActive
			}
			return nil
		}
	}
	return payroll.ErrHolidayNotFound
}

func (r *fakeSettingsRepo) GetDailyAllowance(ctx context.Context) (decimal.Decimal, error) {
	return r.allowance, nil
}

func (r *fakeSettingsRepo) UpdateDailyAllowance(ctx context.Context, amount decimal.Decimal) error {
	r.allowance = amount
	return nil
}

func (r *fakeSettingsRepo) GetMonthlyServiceCharge(ctx context.Context, year, month int) (payroll.MonthlyServiceCharge, error) {
	if r.pot == nil {
		return payroll.MonthlyServiceCharge{}, payroll.ErrServiceChargeNotFound
	}
	return *r.pot, nil
}

func (r *fakeSettingsRepo) UpsertMonthlyServiceCharge(ctx context.Context, charge payroll.MonthlyServiceCharge) (payroll.MonthlyServiceCharge, error) {
	r.pot = &charge
	return charge, nil
}

// fakeTimesheets serves prebuilt aggregations keyed by staff ID.
type fakeTimesheets struct {
	months map[string]timesheet.StaffTimesheet
}

func (f *fakeTimesheets) MonthTimesheet(ctx context.Context, staffID string, year, month int) (timesheet.StaffTimesheet, error) {
	ts, ok := f.months[staffID]
	if !ok {
		return timesheet.StaffTimesheet{
			StaffID:    staffID,
			Year:       year,
			Month:      month,
			DayMinutes: map[string]int{},
		}, nil
	}
	return ts, nil
}

func (f *fakeTimesheets) MonthReviewEntries(ctx context.Context, staffID string, year, month int) ([]timesheet.ReviewEntry, error) {
	return nil, nil
}

func (f *fakeTimesheets) MonthTimesheetReport(ctx context.Context, staffID string, year, month int) (timesheet.StaffTimesheetResponse, error) {
	return timesheet.StaffTimesheetResponse{}, nil
}

func (f *fakeTimesheets) ListEntries(ctx context.Context, filter timesheet.ListTimeEntriesFilter) ([]timesheet.TimeEntryResponse, error) {
	return nil, nil
}

func (f *fakeTimesheets) CorrectEntry(ctx context.Context, req timesheet.UpdateTimeEntryRequest) (timesheet.TimeEntryResponse, error) {
	return timesheet.TimeEntryResponse{}, timesheet.ErrTimeEntryNotFound
}

// countingEntryRepo is an empty TimeEntryRepository that counts list
// calls, enough to observe timesheet cache hits and misses.
type countingEntryRepo struct {
	mu        sync.Mutex
	listCalls int
}

func (r *countingEntryRepo) GetByID(ctx context.Context, id string) (timesheet.TimeEntry, error) {
	return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
}

func (r *countingEntryRepo) ListByStaffBetween(ctx context.Context, staffID string, from, to time.Time) ([]timesheet.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	return nil, nil
}

func (r *countingEntryRepo) UpdateWithAudit(ctx context.Context, entry timesheet.TimeEntry, audit timesheet.TimeEntryAudit) (timesheet.TimeEntry, error) {
	return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
}

func (r *countingEntryRepo) listCallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

// ===== HELPERS =====

func workedMonth(staffID string, shiftDates ...string) timesheet.StaffTimesheet {
	end := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
	ts := timesheet.StaffTimesheet{
		StaffID:    staffID,
		Year:       2025,
		Month:      6,
		DayMinutes: map[string]int{},
	}
	for _, d := range shiftDates {
		ts.Shifts = append(ts.Shifts, timesheet.Shift{
			StaffID: staffID, Date: d, EndAt: &end, WorkedMinutes: 480,
		})
		ts.DayMinutes[d] = 480
	}
	return ts
}

func eligibleSetting(staffID string) payroll.CompensationSetting {
	return payroll.CompensationSetting{
		ID:                      "cs-" + staffID,
		StaffID:                 staffID,
		BaseSalary:              dec("15000"),
		OTRatePerHour:           dec("150"),
		HolidayRatePerHour:      dec("100"),
		IsServiceChargeEligible: true,
	}
}

func newTestPayrollService(staffRepo *fakeStaffRepo, settingsRepo *fakeSettingsRepo, sheets *fakeTimesheets) payroll.PayrollService {
	return NewPayrollService(staffRepo, settingsRepo, sheets, cache.New(time.Hour), time.UTC)
}

// ===== MONTHLY COMPUTATION =====

func TestComputeMonthlyPayroll_ServiceChargeEqualSplit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{
		{ID: "s1", Name: "A", IsActive: true},
		{ID: "s2", Name: "B", IsActive: true},
		{ID: "s3", Name: "C", IsActive: true},
	}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{
			"s1": eligibleSetting("s1"),
			"s2": eligibleSetting("s2"),
			"s3": eligibleSetting("s3"),
		},
		pot: &payroll.MonthlyServiceCharge{Year: 2025, Month: 6, TotalAmount: dec("30000")},
	}
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
		"s2": workedMonth("s2", "2025-06-03"),
		"s3": workedMonth("s3", "2025-06-04"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)
	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Summary.EligibleStaffCount)
	require.Len(t, resp.PerStaff, 3)
	for _, e := range resp.PerStaff {
		assert.True(t, e.ServiceCharge.Equal(dec("10000")), "staff %s got %s", e.StaffID, e.ServiceCharge)
	}
	assert.True(t, resp.Summary.TotalServiceCharge.Equal(dec("30000")))
}

func TestComputeMonthlyPayroll_IneligibleStaffExcludedFromSplit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ineligible := eligibleSetting("s2")
	ineligible.IsServiceChargeEligible = false

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{
		{ID: "s1", Name: "A", IsActive: true},
		{ID: "s2", Name: "B", IsActive: true},
	}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{
			"s1": eligibleSetting("s1"),
			"s2": ineligible,
		},
		pot: &payroll.MonthlyServiceCharge{Year: 2025, Month: 6, TotalAmount: dec("30000")},
	}
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
		"s2": workedMonth("s2", "2025-06-03"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)
	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.EligibleStaffCount)
	require.Len(t, resp.PerStaff, 2)
	byID := map[string]payroll.EntryResponse{}
	for _, e := range resp.PerStaff {
		byID[e.StaffID] = e
	}
	assert.True(t, byID["s1"].ServiceCharge.Equal(dec("30000")))
	assert.True(t, byID["s2"].ServiceCharge.IsZero())
}

func TestComputeMonthlyPayroll_StaffWithoutShiftsGetsNoServiceCharge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{
		{ID: "s1", Name: "A", IsActive: true},
		{ID: "s2", Name: "B", IsActive: true},
	}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{
			"s1": eligibleSetting("s1"),
			"s2": eligibleSetting("s2"),
		},
		pot: &payroll.MonthlyServiceCharge{Year: 2025, Month: 6, TotalAmount: dec("30000")},
	}
	// s2 has no shifts at all this month.
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)
	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.EligibleStaffCount)
	byID := map[string]payroll.EntryResponse{}
	for _, e := range resp.PerStaff {
		byID[e.StaffID] = e
	}
	assert.True(t, byID["s1"].ServiceCharge.Equal(dec("30000")))
	assert.True(t, byID["s2"].ServiceCharge.IsZero())
}

func TestComputeMonthlyPayroll_MissingSettingsDoesNotAbortBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{
		{ID: "s1", Name: "A", IsActive: true},
		{ID: "s2", Name: "B", IsActive: true},
	}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{
			"s1": eligibleSetting("s1"),
		},
	}
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
		"s2": workedMonth("s2", "2025-06-03"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)
	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.StaffComputed)
	assert.Equal(t, 1, resp.Summary.StaffFailed)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "s2", resp.Failures[0].StaffID)
	assert.Equal(t, string(payroll.FailureMissingCompensationSettings), resp.Failures[0].Reason)
}

func TestComputeMonthlyPayroll_NoPotMeansZeroShares(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{{ID: "s1", Name: "A", IsActive: true}}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{"s1": eligibleSetting("s1")},
	}
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)
	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	require.Len(t, resp.PerStaff, 1)
	assert.True(t, resp.PerStaff[0].ServiceCharge.IsZero())
}

func TestComputeMonthlyPayroll_EmptyRoster(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestPayrollService(&fakeStaffRepo{}, &fakeSettingsRepo{
		pot: &payroll.MonthlyServiceCharge{Year: 2025, Month: 6, TotalAmount: dec("30000")},
	}, &fakeTimesheets{})

	resp, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Zero(t, resp.Summary.EligibleStaffCount)
	assert.Empty(t, resp.PerStaff)
	assert.True(t, resp.Summary.TotalPayout.IsZero())
}

func TestComputeMonthlyPayroll_Deterministic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	staffRepo := &fakeStaffRepo{roster: []staff.Staff{
		{ID: "s2", Name: "B", IsActive: true},
		{ID: "s1", Name: "A", IsActive: true},
	}}
	settingsRepo := &fakeSettingsRepo{
		settings: map[string]payroll.CompensationSetting{
			"s1": eligibleSetting("s1"),
			"s2": eligibleSetting("s2"),
		},
		pot: &payroll.MonthlyServiceCharge{Year: 2025, Month: 6, TotalAmount: dec("100")},
	}
	sheets := &fakeTimesheets{months: map[string]timesheet.StaffTimesheet{
		"s1": workedMonth("s1", "2025-06-02"),
		"s2": workedMonth("s2", "2025-06-03"),
	}}

	svc := newTestPayrollService(staffRepo, settingsRepo, sheets)

	first, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)
	second, err := svc.ComputeMonthlyPayroll(ctx, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Roster order is by ID regardless of repository order.
	assert.Equal(t, "s1", first.PerStaff[0].StaffID)
}

func TestComputeMonthlyPayroll_InvalidPeriod(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestPayrollService(&fakeStaffRepo{}, &fakeSettingsRepo{}, &fakeTimesheets{})

	_, err := svc.ComputeMonthlyPayroll(ctx, 2025, 13)
	assert.Error(t, err)
}

// ===== SETTINGS OPERATIONS =====

func TestUpdatePublicHoliday_NothingToUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestPayrollService(&fakeStaffRepo{}, &fakeSettingsRepo{}, &fakeTimesheets{})

	err := svc.UpdatePublicHoliday(ctx, payroll.UpdatePublicHolidayRequest{ID: "h1"})
	assert.ErrorIs(t, err, payroll.ErrNothingToUpdate)
}

func TestUpsertServiceCharge_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestPayrollService(&fakeStaffRepo{}, &fakeSettingsRepo{}, &fakeTimesheets{})

	_, err := svc.UpsertServiceCharge(ctx, payroll.UpsertServiceChargeRequest{
		Year: 2025, Month: 6, TotalAmount: dec("-1"),
	})
	assert.Error(t, err)
}

func TestCreateCompensationSetting_AssignsID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// The repository inserts the id it is handed, so the service must
	// supply one; the row cannot rely on the entity zero value.
	settingsRepo := &fakeSettingsRepo{}
	svc := newTestPayrollService(&fakeStaffRepo{}, settingsRepo, &fakeTimesheets{})

	created, err := svc.CreateCompensationSetting(ctx, payroll.CreateCompensationSettingRequest{
		StaffID:                 "s1",
		BaseSalary:              dec("15000"),
		OTRatePerHour:           dec("150"),
		HolidayRatePerHour:      dec("100"),
		IsServiceChargeEligible: true,
		EffectiveFrom:           "2025-06-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, settingsRepo.settings["s1"].ID, "repository must receive a generated id")
}

func TestCreatePublicHoliday_AssignsID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settingsRepo := &fakeSettingsRepo{}
	svc := newTestPayrollService(&fakeStaffRepo{}, settingsRepo, &fakeTimesheets{})

	created, err := svc.CreatePublicHoliday(ctx, payroll.CreatePublicHolidayRequest{
		Date: "2025-06-03",
		Name: "Visakha Bucha",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.Len(t, settingsRepo.holidays, 1)
	assert.NotEmpty(t, settingsRepo.holidays[0].ID, "repository must receive a generated id")
}

func TestCreateCompensationSetting_InvalidatesTimesheetCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Both services share the store; the setting write must drop the
	// cached aggregation under the same scope key the timesheet service
	// reads with.
	store := cache.New(time.Hour)
	entryRepo := &countingEntryRepo{}
	sheets := tsservice.NewTimesheetService(entryRepo, store, time.UTC)
	svc := NewPayrollService(&fakeStaffRepo{}, &fakeSettingsRepo{}, sheets, store, time.UTC)

	_, err := sheets.MonthTimesheet(ctx, "s1", 2025, 6)
	require.NoError(t, err)
	_, err = sheets.MonthTimesheet(ctx, "s1", 2025, 6)
	require.NoError(t, err)
	require.Equal(t, 1, entryRepo.listCallCount(), "second read must hit the cache")

	_, err = svc.CreateCompensationSetting(ctx, payroll.CreateCompensationSettingRequest{
		StaffID:                 "s1",
		BaseSalary:              dec("15000"),
		OTRatePerHour:           dec("150"),
		HolidayRatePerHour:      dec("100"),
		IsServiceChargeEligible: true,
		EffectiveFrom:           "2025-06-01",
	})
	require.NoError(t, err)

	_, err = sheets.MonthTimesheet(ctx, "s1", 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, entryRepo.listCallCount(), "setting write must invalidate the cached month")
}

func TestCreateCompensationSetting_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settingsRepo := &fakeSettingsRepo{}
	svc := newTestPayrollService(&fakeStaffRepo{}, settingsRepo, &fakeTimesheets{})

	created, err := svc.CreateCompensationSetting(ctx, payroll.CreateCompensationSettingRequest{
		StaffID:                 "s1",
		BaseSalary:              dec("15000"),
		OTRatePerHour:           dec("150"),
		HolidayRatePerHour:      dec("100"),
		IsServiceChargeEligible: true,
		EffectiveFrom:           "2025-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", created.EffectiveFrom)

	listed, err := svc.ListCompensationSettings(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].BaseSalary.Equal(dec("15000")))
}
