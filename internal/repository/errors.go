package repository

import "errors"

// Storage-level sentinel errors. Services translate these into the
// caller-facing error taxonomy.
var (
	ErrStaffNotFound    = errors.New("staff not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrSlotNotFound     = errors.New("slot not found")

	// ErrScheduleExists is returned when a (staff, date) schedule already
	// exists. The unique index makes the first writer win.
	ErrScheduleExists = errors.New("schedule already exists for this date")

	// ErrSlotAlreadyBooked is returned when the conditional free -> booked
	// update matches no row.
	ErrSlotAlreadyBooked = errors.New("slot is already booked")

	// ErrScheduleHasBookings is returned when a delete is refused because at
	// least one child slot is booked.
	ErrScheduleHasBookings = errors.New("schedule has booked slots")
)
