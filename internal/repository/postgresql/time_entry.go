package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lengolf/lengolf-backend-go/internal/domain/timesheet"
	"github.com/lengolf/lengolf-backend-go/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timesheet.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// GetByID implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, staff_id, action, timestamp, photo_captured, device_info, created_at, updated_at
		FROM time_entries
		WHERE id = $1
	`

	var e timesheet.TimeEntry
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.StaffID, &e.Action, &e.Timestamp, &e.PhotoCaptured, &e.DeviceInfo,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
		}
		return timesheet.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return e, nil
}

// ListByStaffBetween implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) ListByStaffBetween(ctx context.Context, staffID string, from, to time.Time) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, staff_id, action, timestamp, photo_captured, device_info, created_at, updated_at
		FROM time_entries
		WHERE staff_id = $1
		  AND timestamp >= $2
		  AND timestamp < $3
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var e timesheet.TimeEntry
		if err := rows.Scan(
			&e.ID, &e.StaffID, &e.Action, &e.Timestamp, &e.PhotoCaptured, &e.DeviceInfo,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return entries, nil
}

// UpdateWithAudit implements timesheet.TimeEntryRepository. The entry
// update and its audit row commit together or not at all.
func (r *timeEntryRepository) UpdateWithAudit(ctx context.Context, entry timesheet.TimeEntry, audit timesheet.TimeEntryAudit) (timesheet.TimeEntry, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE time_entries
			SET action = $2, timestamp = $3, updated_at = NOW()
			WHERE id = $1
		`, entry.ID, entry.Action, entry.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to update time entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return timesheet.ErrTimeEntryNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO time_entry_audits (
				id, time_entry_id, staff_id,
				old_timestamp, new_timestamp, old_action, new_action,
				edited_by, edited_at, note
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
		`,
			audit.ID, audit.TimeEntryID, audit.StaffID,
			audit.OldTimestamp, audit.NewTimestamp, audit.OldAction, audit.NewAction,
			audit.EditedBy, audit.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert time entry audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return timesheet.TimeEntry{}, err
	}

	return r.GetByID(ctx, entry.ID)
}
