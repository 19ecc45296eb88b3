package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) payroll.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetCompensationSetting implements payroll.SettingsRepository.
func (r *settingsRepository) GetCompensationSetting(ctx context.Context, staffID string, asOf time.Time) (payroll.CompensationSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, staff_id, base_salary, ot_rate_per_hour, holiday_rate_per_hour,
		       is_service_charge_eligible, effective_from, effective_to, created_at, updated_at
		FROM compensation_settings
		WHERE staff_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var s payroll.CompensationSetting
	err := q.QueryRow(ctx, query, staffID, asOf).Scan(
		&s.ID, &s.StaffID, &s.BaseSalary, &s.OTRatePerHour, &s.HolidayRatePerHour,
		&s.IsServiceChargeEligible, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.CompensationSetting{}, payroll.ErrMissingCompensationSettings
		}
		return payroll.CompensationSetting{}, fmt.Errorf("failed to get compensation setting: %w", err)
	}

	return s, nil
}

// ListCompensationSettings implements payroll.SettingsRepository.
func (r *settingsRepository) ListCompensationSettings(ctx context.Context, staffID string) ([]payroll.CompensationSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, staff_id, base_salary, ot_rate_per_hour, holiday_rate_per_hour,
		       is_service_charge_eligible, effective_from, effective_to, created_at, updated_at
		FROM compensation_settings
		WHERE staff_id = $1
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compensation settings: %w", err)
	}
	defer rows.Close()

	var settings []payroll.CompensationSetting
	for rows.Next() {
		var s payroll.CompensationSetting
		if err := rows.Scan(
			&s.ID, &s.StaffID, &s.BaseSalary, &s.OTRatePerHour, &s.HolidayRatePerHour,
			&s.IsServiceChargeEligible, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan compensation setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate compensation settings: %w", err)
	}

	return settings, nil
}

// CreateCompensationSetting implements payroll.SettingsRepository. The
// previously open row for the staff member, if any, is closed the day
// before the new row takes effect, inside the same transaction.
func (r *settingsRepository) CreateCompensationSetting(ctx context.Context, setting payroll.CompensationSetting) (payroll.CompensationSetting, error) {
	var created payroll.CompensationSetting

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var overlaps bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM compensation_settings
				WHERE staff_id = $1 AND effective_from >= $2
			)
		`, setting.StaffID, setting.EffectiveFrom).Scan(&overlaps)
		if err != nil {
			return fmt.Errorf("failed to check effective range: %w", err)
		}
		if overlaps {
			return payroll.ErrEffectiveRangeOverlap
		}

		_, err = tx.Exec(ctx, `
			UPDATE compensation_settings
			SET effective_to = $2::date - INTERVAL '1 day', updated_at = NOW()
			WHERE staff_id = $1 AND effective_to IS NULL
		`, setting.StaffID, setting.EffectiveFrom)
		if err != nil {
			return fmt.Errorf("failed to close previous compensation setting: %w", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO compensation_settings (
				id, staff_id, base_salary, ot_rate_per_hour, holiday_rate_per_hour,
				is_service_charge_eligible, effective_from, effective_to, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NOW(), NOW())
			RETURNING id, staff_id, base_salary, ot_rate_per_hour, holiday_rate_per_hour,
			          is_service_charge_eligible, effective_from, effective_to, created_at, updated_at
		`,
			setting.ID, setting.StaffID, setting.BaseSalary, setting.OTRatePerHour,
			setting.HolidayRatePerHour, setting.IsServiceChargeEligible, setting.EffectiveFrom,
		).Scan(
			&created.ID, &created.StaffID, &created.BaseSalary, &created.OTRatePerHour,
			&created.HolidayRatePerHour, &created.IsServiceChargeEligible,
			&created.EffectiveFrom, &created.EffectiveTo, &created.CreatedAt, &created.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create compensation setting: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.CompensationSetting{}, err
	}

	return created, nil
}

// ListPublicHolidays implements payroll.SettingsRepository.
func (r *settingsRepository) ListPublicHolidays(ctx context.Context, year, month int) ([]payroll.PublicHoliday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, to_char(holiday_date, 'YYYY-MM-DD'), name, is_active
		FROM public_holidays
		WHERE EXTRACT(YEAR FROM holiday_date) = $1
		  AND EXTRACT(MONTH FROM holiday_date) = $2
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list public holidays: %w", err)
	}
	defer rows.Close()

	var holidays []payroll.PublicHoliday
	for rows.Next() {
		var h payroll.PublicHoliday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan public holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate public holidays: %w", err)
	}

	return holidays, nil
}

// CreatePublicHoliday implements payroll.SettingsRepository.
func (r *settingsRepository) CreatePublicHoliday(ctx context.Context, holiday payroll.PublicHoliday) (payroll.PublicHoliday, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM public_holidays WHERE holiday_date = $1)
	`, holiday.Date).Scan(&exists)
	if err != nil {
		return payroll.PublicHoliday{}, fmt.Errorf("failed to check holiday date: %w", err)
	}
	if exists {
		return payroll.PublicHoliday{}, payroll.ErrHolidayDateExists
	}

	var created payroll.PublicHoliday
	err = q.QueryRow(ctx, `
		INSERT INTO public_holidays (id, holiday_date, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, true, NOW(), NOW())
		RETURNING id, to_char(holiday_date, 'YYYY-MM-DD'), name, is_active
	`, holiday.ID, holiday.Date, holiday.Name).Scan(
		&created.ID, &created.Date, &created.Name, &created.IsActive,
	)
	if err != nil {
		return payroll.PublicHoliday{}, fmt.Errorf("failed to create public holiday: %w", err)
	}

	return created, nil
}

// UpdatePublicHoliday implements payroll.SettingsRepository.
func (r *settingsRepository) UpdatePublicHoliday(ctx context.Context, req payroll.UpdatePublicHolidayRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE public_holidays
		SET name = COALESCE($2, name),
		    is_active = COALESCE($3, is_active),
		    updated_at = NOW()
		WHERE id = $1
	`, req.ID, req.Name, req.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update public holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrHolidayNotFound
	}

	return nil
}

// GetDailyAllowance implements payroll.SettingsRepository. The
// allowance is a single process-wide row keyed by name.
func (r *settingsRepository) GetDailyAllowance(ctx context.Context) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var amount decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT value FROM payroll_settings WHERE name = 'daily_allowance'
	`).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get daily allowance: %w", err)
	}

	return amount, nil
}

// UpdateDailyAllowance implements payroll.SettingsRepository.
func (r *settingsRepository) UpdateDailyAllowance(ctx context.Context, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO payroll_settings (name, value, updated_at)
		VALUES ('daily_allowance', $1, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, amount)
	if err != nil {
		return fmt.Errorf("failed to update daily allowance: %w", err)
	}

	return nil
}

// GetMonthlyServiceCharge implements payroll.SettingsRepository.
func (r *settingsRepository) GetMonthlyServiceCharge(ctx context.Context, year, month int) (payroll.MonthlyServiceCharge, error) {
	q := GetQuerier(ctx, r.db)

	var c payroll.MonthlyServiceCharge
	err := q.QueryRow(ctx, `
		SELECT year, month, total_amount
		FROM monthly_service_charges
		WHERE year = $1 AND month = $2
	`, year, month).Scan(&c.Year, &c.Month, &c.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.MonthlyServiceCharge{}, payroll.ErrServiceChargeNotFound
		}
		return payroll.MonthlyServiceCharge{}, fmt.Errorf("failed to get monthly service charge: %w", err)
	}

	return c, nil
}

// UpsertMonthlyServiceCharge implements payroll.SettingsRepository.
func (r *settingsRepository) UpsertMonthlyServiceCharge(ctx context.Context, charge payroll.MonthlyServiceCharge) (payroll.MonthlyServiceCharge, error) {
	q := GetQuerier(ctx, r.db)

	var saved payroll.MonthlyServiceCharge
	err := q.QueryRow(ctx, `
		INSERT INTO monthly_service_charges (year, month, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (year, month) DO UPDATE SET total_amount = EXCLUDED.total_amount, updated_at = NOW()
		RETURNING year, month, total_amount
	`, charge.Year, charge.Month, charge.TotalAmount).Scan(&saved.Year, &saved.Month, &saved.TotalAmount)
	if err != nil {
		return payroll.MonthlyServiceCharge{}, fmt.Errorf("failed to upsert monthly service charge: %w", err)
	}

	return saved, nil
}
