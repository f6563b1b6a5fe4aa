package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusFree   SlotStatus = "free"
	SlotStatusBooked SlotStatus = "booked"
)

// WorkSchedule is one staff member's working-time window for a single
// calendar date. At most one exists per (staff, date).
type WorkSchedule struct {
	Base
	StaffID   uuid.UUID `db:"staff_id" json:"staff_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`

	Slots []*ScheduleSlot `db:"-" json:"slots,omitempty"`
}

// ScheduleSlot is one bookable fixed-duration sub-interval of a WorkSchedule.
// Slots are created together with their schedule; the only mutation after
// creation is the free -> booked transition.
type ScheduleSlot struct {
	Base
	ScheduleID    uuid.UUID  `db:"schedule_id" json:"schedule_id"`
	StartTime     time.Time  `db:"start_time" json:"start_time"`
	EndTime       time.Time  `db:"end_time" json:"end_time"`
	Status        SlotStatus `db:"status" json:"status"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
}

// DaySummary is one cell of the weekly overview grid.
type DaySummary struct {
	Date        time.Time `json:"date"`
	ScheduleID  uuid.UUID `json:"schedule_id,omitempty"`
	Off         bool      `json:"off"`
	StartTime   time.Time `json:"start_time,omitempty"`
	EndTime     time.Time `json:"end_time,omitempty"`
	TotalSlots  int       `json:"total_slots"`
	BookedSlots int       `json:"booked_slots"`
}

// StaffWeek is one row of the weekly overview grid.
type StaffWeek struct {
	Staff *Staff        `json:"staff"`
	Days  []*DaySummary `json:"days"`
}

// StaffWeekDetail is the single-staff weekly view including slots.
type StaffWeekDetail struct {
	Staff     *Staff          `json:"staff"`
	Days      []*DaySummary   `json:"days"`
	Schedules []*WorkSchedule `json:"schedules"`
}

type DateOutcomeStatus string

const (
	DateOutcomeCreated DateOutcomeStatus = "created"
	DateOutcomeSkipped DateOutcomeStatus = "skipped"
	DateOutcomeFailed  DateOutcomeStatus = "failed"
)

// DateOutcome reports the result of one date in a batch schedule operation.
type DateOutcome struct {
	Date       time.Time         `json:"date"`
	Status     DateOutcomeStatus `json:"status"`
	ScheduleID uuid.UUID         `json:"schedule_id,omitempty"`
	SlotCount  int               `json:"slot_count,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

type CreateWeeklyScheduleRequest struct {
	StaffID      string   `json:"staff_id" binding:"required,uuid"`
	WorkingDates []string `json:"working_dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	StartTime    string   `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string   `json:"end_time" binding:"required,datetime=15:04"`
	SlotDuration int      `json:"slot_duration" binding:"required,min=15,max=120"`
}

type CopyWeekRequest struct {
	StaffID         string `json:"staff_id" binding:"required,uuid"`
	TargetWeekStart string `json:"target_week_start" binding:"required,datetime=2006-01-02"`
}
