package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

// ClaimSlot is the exclusivity gate. The free -> booked transition is a
// conditional update keyed on the current status; RowsAffected tells us
// whether this caller won. Claim and appointment insert commit together.
func (r *bookingRepository) ClaimSlot(ctx context.Context, slotID uuid.UUID, appointment *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	claim := `
		UPDATE schedule_slots
		SET status = 'booked', appointment_id = $2, updated_at = $3
		WHERE id = $1 AND status = 'free'
	`
	result, err := tx.ExecContext(ctx, claim, slotID, appointment.ID, now)
	if err != nil {
		return fmt.Errorf("failed to claim slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM schedule_slots WHERE id = $1)`, slotID); err != nil {
			return fmt.Errorf("failed to check slot existence: %w", err)
		}
		if !exists {
			return repository.ErrSlotNotFound
		}
		return repository.ErrSlotAlreadyBooked
	}

	insert := `
		INSERT INTO appointments (
			id, slot_id, staff_id, patient_id, scheduled_at,
			reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.ExecContext(ctx, insert,
		appointment.ID,
		appointment.SlotID,
		appointment.StaffID,
		appointment.PatientID,
		appointment.ScheduledAt,
		appointment.Reason,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, slot_id, staff_id, patient_id, scheduled_at,
			   reason, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}
