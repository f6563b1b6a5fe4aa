package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked AppointmentStatus = "booked"
)

type Appointment struct {
	Base
	SlotID      uuid.UUID         `db:"slot_id" json:"slot_id"`
	StaffID     uuid.UUID         `db:"staff_id" json:"staff_id"`
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Reason      string            `db:"reason" json:"reason,omitempty"`
	Status      AppointmentStatus `db:"status" json:"status"`
}

type BookAppointmentRequest struct {
	DoctorID      string `json:"doctor_id" binding:"required,uuid"`
	SlotID        string `json:"schedule_detail_id" binding:"required,uuid"`
	PatientID     string `json:"patient_id" binding:"required,uuid"`
	ScheduledDate string `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" binding:"max=1000"`
}

type GuestBookAppointmentRequest struct {
	DoctorID      string `json:"doctor_id" binding:"required,uuid"`
	SlotID        string `json:"schedule_detail_id" binding:"required,uuid"`
	ScheduledDate string `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" binding:"max=1000"`

	FullName    string `json:"full_name" validate:"required" binding:"required"`
	DateOfBirth string `json:"dob" validate:"required" binding:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required,oneof=male female other" binding:"required"`
	Phone       string `json:"phone" validate:"required" binding:"required"`
	Email       string `json:"email" validate:"required,email" binding:"required,email"`
}

// GuestContact carries the mandatory contact fields of a guest booking.
func (r *GuestBookAppointmentRequest) GuestContact() *GuestContact {
	return &GuestContact{
		FullName:    r.FullName,
		DateOfBirth: r.DateOfBirth,
		Gender:      r.Gender,
		Phone:       r.Phone,
		Email:       r.Email,
	}
}

type GuestContact struct {
	FullName    string `json:"full_name" validate:"required"`
	DateOfBirth string `json:"dob" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

// BookingConfirmation is returned to the caller after a successful booking.
type BookingConfirmation struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Message       string    `json:"message"`
}
