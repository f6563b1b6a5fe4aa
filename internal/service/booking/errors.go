package booking

import "errors"

var (
	// ErrValidation marks malformed or missing request fields. The wrapped
	// message carries the per-field detail.
	ErrValidation = errors.New("validation failed")

	// ErrPastDate rejects appointments whose start is not strictly in the
	// future.
	ErrPastDate = errors.New("appointment date must be in the future")

	// ErrBookingHorizonExceeded rejects appointments more than 30 calendar
	// days ahead. Exactly 30 days is accepted.
	ErrBookingHorizonExceeded = errors.New("appointment date exceeds the 30 day booking horizon")

	// ErrSlotDateMismatch rejects requests whose scheduled date does not
	// fall on the slot's calendar date.
	ErrSlotDateMismatch = errors.New("scheduled date does not match the slot's date")
)
