package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
)

// All repository interfaces in one file
type (
	// ScheduleRepository owns work schedules and their slots. Schedule and
	// slots are created and deleted as one unit.
	ScheduleRepository interface {
		// CreateWithSlots inserts the schedule and all of its slots in one
		// transaction. Returns ErrScheduleExists if a schedule for the same
		// (staff, date) already exists.
		CreateWithSlots(ctx context.Context, schedule *model.WorkSchedule) error
		Get(ctx context.Context, id uuid.UUID) (*model.WorkSchedule, error)
		GetByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) (*model.WorkSchedule, error)
		ListByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.WorkSchedule, error)
		ListByRange(ctx context.Context, from, to time.Time) ([]*model.WorkSchedule, error)
		ListSlots(ctx context.Context, scheduleID uuid.UUID) ([]*model.ScheduleSlot, error)
		GetSlot(ctx context.Context, slotID uuid.UUID) (*model.ScheduleSlot, error)
		// Delete removes the schedule and its slots. The booked-slot guard
		// and the delete are a single atomic statement; returns
		// ErrScheduleHasBookings when any slot is booked.
		Delete(ctx context.Context, id uuid.UUID) error
	}

	// BookingRepository performs the exclusive slot claim.
	BookingRepository interface {
		// ClaimSlot transitions the slot free -> booked and inserts the
		// appointment in one transaction. The claim is a conditional update;
		// under concurrent calls for the same slot exactly one succeeds and
		// the rest get ErrSlotAlreadyBooked.
		ClaimSlot(ctx context.Context, slotID uuid.UUID, appointment *model.Appointment) error
		GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	}

	// StaffRepository reads the staff directory. This engine never writes it.
	StaffRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}
)
