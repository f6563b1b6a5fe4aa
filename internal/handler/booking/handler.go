package booking

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	"github.com/jwalitptl/scheduler-api/internal/service/booking"
	apperrors "github.com/jwalitptl/scheduler-api/pkg/errors"
	"github.com/jwalitptl/scheduler-api/pkg/httputil"
)

// Allocator is the slice of the booking service the handler needs.
type Allocator interface {
	Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.BookingConfirmation, error)
	GuestBook(ctx context.Context, req *model.GuestBookAppointmentRequest) (*model.BookingConfirmation, error)
}

type Handler struct {
	allocator Allocator
}

func NewHandler(allocator Allocator) *Handler {
	return &Handler{allocator: allocator}
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	confirmation, err := h.allocator.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, mapBookingError(err))
		return
	}

	c.Header("Location", "/api/v1/appointments/"+confirmation.AppointmentID.String())
	httputil.RespondWithCreated(c, confirmation)
}

func (h *Handler) GuestBookAppointment(c *gin.Context) {
	var req model.GuestBookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	confirmation, err := h.allocator.GuestBook(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, mapBookingError(err))
		return
	}

	c.Header("Location", "/api/v1/appointments/"+confirmation.AppointmentID.String())
	httputil.RespondWithCreated(c, confirmation)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/book", h.BookAppointment)
		appointments.POST("/guest-book", h.GuestBookAppointment)
	}
}

func mapBookingError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return apperrors.NotFound("slot", err)
	case errors.Is(err, repository.ErrScheduleNotFound):
		return apperrors.NotFound("schedule", err)
	case errors.Is(err, repository.ErrStaffNotFound):
		return apperrors.NotFound("doctor", err)
	case errors.Is(err, repository.ErrPatientNotFound):
		return apperrors.NotFound("patient", err)
	case errors.Is(err, repository.ErrSlotAlreadyBooked):
		return apperrors.Conflict(err.Error(), err)
	case errors.Is(err, booking.ErrPastDate),
		errors.Is(err, booking.ErrBookingHorizonExceeded),
		errors.Is(err, booking.ErrSlotDateMismatch),
		errors.Is(err, booking.ErrValidation):
		return apperrors.BadRequest(err.Error(), err)
	default:
		return apperrors.Internal(err)
	}
}
