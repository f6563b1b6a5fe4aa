package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	"github.com/jwalitptl/scheduler-api/internal/service/patient"
	"github.com/jwalitptl/scheduler-api/internal/service/schedule"
	"github.com/jwalitptl/scheduler-api/internal/service/staff"
	"github.com/jwalitptl/scheduler-api/pkg/messaging"
	"github.com/jwalitptl/scheduler-api/pkg/metrics"
	"github.com/jwalitptl/scheduler-api/pkg/validator"
)

// BookingHorizon is the maximum lead time between now and an appointment
// date, measured in calendar days.
const BookingHorizon = 30

const bookedChannel = "appointment.booked"

// Service allocates patients to schedule slots. The free -> booked
// transition and the appointment insert commit together in the store; all
// precondition checks here are advisory except the claim itself, which is
// the authoritative check-and-set.
type Service struct {
	slots      repository.ScheduleRepository
	bookings   repository.BookingRepository
	staffSvc   *staff.Service
	patientSvc *patient.Service
	broker     messaging.Broker
	validate   *validator.Validator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(
	slots repository.ScheduleRepository,
	bookings repository.BookingRepository,
	staffSvc *staff.Service,
	patientSvc *patient.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		slots:      slots,
		bookings:   bookings,
		staffSvc:   staffSvc,
		patientSvc: patientSvc,
		broker:     broker,
		validate:   validator.New(),
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

type bookParams struct {
	doctorID      uuid.UUID
	slotID        uuid.UUID
	scheduledDate time.Time
	reason        string
}

// Book claims a slot for a registered patient.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.BookingConfirmation, error) {
	params, err := parseBookRequest(req.DoctorID, req.SlotID, req.ScheduledDate, req.Reason)
	if err != nil {
		return nil, err
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid patient id", ErrValidation)
	}

	return s.book(ctx, params, func(ctx context.Context) (uuid.UUID, error) {
		if _, err := s.patientSvc.Get(ctx, patientID); err != nil {
			return uuid.Nil, err
		}
		return patientID, nil
	})
}

// GuestBook claims a slot for an unauthenticated caller. The guest identity
// is provisioned only after the slot, staff and window checks pass, right
// before the claim, so a booking that fails those checks leaves no guest
// record behind. A guest orphaned by losing the claim race itself is
// acceptable; identity is owned by the patient service.
func (s *Service) GuestBook(ctx context.Context, req *model.GuestBookAppointmentRequest) (*model.BookingConfirmation, error) {
	params, err := parseBookRequest(req.DoctorID, req.SlotID, req.ScheduledDate, req.Reason)
	if err != nil {
		return nil, err
	}

	return s.book(ctx, params, func(ctx context.Context) (uuid.UUID, error) {
		contact := req.GuestContact()
		if err := s.validate.Validate(contact); err != nil {
			return uuid.Nil, fmt.Errorf("%w: invalid guest contact: %v", ErrValidation, err)
		}
		guest, err := s.patientSvc.CreateGuestPatient(ctx, contact)
		if err != nil {
			return uuid.Nil, err
		}
		return guest.ID, nil
	})
}

// book runs the advisory precondition checks in order, resolves the patient
// identity, and performs the authoritative claim. resolvePatient runs after
// every check so identity side effects happen only when the claim is about
// to be attempted.
func (s *Service) book(ctx context.Context, p *bookParams, resolvePatient func(context.Context) (uuid.UUID, error)) (*model.BookingConfirmation, error) {
	start := s.now()

	slot, err := s.slots.GetSlot(ctx, p.slotID)
	if err != nil {
		return nil, err
	}

	sched, err := s.slots.Get(ctx, slot.ScheduleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.staffSvc.GetBookable(ctx, p.doctorID); err != nil {
		return nil, err
	}
	if sched.StaffID != p.doctorID {
		return nil, fmt.Errorf("slot does not belong to the requested doctor: %w", repository.ErrSlotNotFound)
	}

	// Advisory pre-check; the conditional update below is the real gate.
	if slot.Status != model.SlotStatusFree {
		return nil, repository.ErrSlotAlreadyBooked
	}

	// The appointment instant is derived from the slot, never taken from the
	// request, so the stored time cannot disagree with the slot.
	scheduledAt := slot.StartTime
	if err := s.checkWindow(p.scheduledDate, scheduledAt); err != nil {
		return nil, err
	}

	patientID, err := resolvePatient(ctx)
	if err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		SlotID:      slot.ID,
		StaffID:     sched.StaffID,
		PatientID:   patientID,
		ScheduledAt: scheduledAt,
		Reason:      p.reason,
		Status:      model.AppointmentStatusBooked,
	}

	if err := s.bookings.ClaimSlot(ctx, slot.ID, appointment); err != nil {
		if err == repository.ErrSlotAlreadyBooked {
			s.metrics.BookingConflicts.Inc()
			s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	s.metrics.BookingsTotal.WithLabelValues("success").Inc()
	s.metrics.BookingLatency.Observe(s.now().Sub(start).Seconds())

	s.publishBooked(appointment)

	s.logger.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("slot_id", slot.ID.String()).
		Str("staff_id", sched.StaffID.String()).
		Time("scheduled_at", scheduledAt).
		Msg("appointment booked")

	return &model.BookingConfirmation{
		AppointmentID: appointment.ID,
		Message: fmt.Sprintf("Appointment booked for %s",
			scheduledAt.Format("Mon, 02 Jan 2006 15:04")),
	}, nil
}

// checkWindow enforces the temporal validity window (now, now+30d], with the
// horizon measured in calendar days: the 30th day passes regardless of
// hour-of-day.
func (s *Service) checkWindow(requestedDate, scheduledAt time.Time) error {
	if !schedule.Day(requestedDate).Equal(schedule.Day(scheduledAt)) {
		return ErrSlotDateMismatch
	}

	now := s.now()
	if !scheduledAt.After(now) {
		return ErrPastDate
	}

	horizon := schedule.Day(now).AddDate(0, 0, BookingHorizon)
	if schedule.Day(scheduledAt).After(horizon) {
		return ErrBookingHorizonExceeded
	}
	return nil
}

// publishBooked emits the confirmation event. Delivery is owned by the
// notification service; booking never blocks on it.
func (s *Service) publishBooked(appointment *model.Appointment) {
	if s.broker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg := messaging.Message{
			Type:    "appointment.booked",
			Payload: appointment,
		}
		if err := s.broker.Publish(ctx, bookedChannel, msg); err != nil {
			s.logger.Warn().Err(err).
				Str("appointment_id", appointment.ID.String()).
				Msg("failed to publish booking event")
		}
	}()
}

func parseBookRequest(doctorID, slotID, scheduledDate, reason string) (*bookParams, error) {
	did, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid doctor id", ErrValidation)
	}
	sid, err := uuid.Parse(slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid slot id", ErrValidation)
	}
	date, err := time.Parse("2006-01-02", scheduledDate)
	if err != nil {
		return nil, fmt.Errorf("%w: scheduled date must be YYYY-MM-DD", ErrValidation)
	}
	return &bookParams{
		doctorID:      did,
		slotID:        sid,
		scheduledDate: date,
		reason:        reason,
	}, nil
}
