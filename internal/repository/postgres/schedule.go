package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

const uniqueViolation = "23505"

func (r *scheduleRepository) CreateWithSlots(ctx context.Context, schedule *model.WorkSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	query := `
		INSERT INTO work_schedules (
			id, staff_id, date, start_time, end_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		schedule.ID,
		schedule.StaffID,
		schedule.Date,
		schedule.StartTime,
		schedule.EndTime,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repository.ErrScheduleExists
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	slotQuery := `
		INSERT INTO schedule_slots (
			id, schedule_id, start_time, end_time, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, slot := range schedule.Slots {
		slot.CreatedAt = now
		slot.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, slotQuery,
			slot.ID,
			slot.ScheduleID,
			slot.StartTime,
			slot.EndTime,
			slot.Status,
			slot.CreatedAt,
			slot.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkSchedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, created_at, updated_at
		FROM work_schedules
		WHERE id = $1
	`
	var schedule model.WorkSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) GetByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) (*model.WorkSchedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, created_at, updated_at
		FROM work_schedules
		WHERE staff_id = $1 AND date = $2
	`
	var schedule model.WorkSchedule
	if err := r.db.GetContext(ctx, &schedule, query, staffID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.WorkSchedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, created_at, updated_at
		FROM work_schedules
		WHERE staff_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	var schedules []*model.WorkSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListByRange(ctx context.Context, from, to time.Time) ([]*model.WorkSchedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, created_at, updated_at
		FROM work_schedules
		WHERE date >= $1 AND date <= $2
		ORDER BY staff_id, date ASC
	`
	var schedules []*model.WorkSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListSlots(ctx context.Context, scheduleID uuid.UUID) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT id, schedule_id, start_time, end_time, status, appointment_id, created_at, updated_at
		FROM schedule_slots
		WHERE schedule_id = $1
		ORDER BY start_time ASC
	`
	var slots []*model.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (r *scheduleRepository) GetSlot(ctx context.Context, slotID uuid.UUID) (*model.ScheduleSlot, error) {
	query := `
		SELECT id, schedule_id, start_time, end_time, status, appointment_id, created_at, updated_at
		FROM schedule_slots
		WHERE id = $1
	`
	var slot model.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

// Delete refuses schedules with booked slots: the guard is part of the
// statement, so a booking that lands between a check and the delete cannot
// slip through.
func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		DELETE FROM work_schedules
		WHERE id = $1
		AND NOT EXISTS (
			SELECT 1 FROM schedule_slots
			WHERE schedule_id = $1 AND status = 'booked'
		)
	`
	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing schedule from a refused delete.
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM work_schedules WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check schedule existence: %w", err)
		}
		if !exists {
			return repository.ErrScheduleNotFound
		}
		return repository.ErrScheduleHasBookings
	}

	// schedule_slots has ON DELETE CASCADE; all remaining slots are free.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
