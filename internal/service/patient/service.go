package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

// Service is the patient identity facade. Registered patients are resolved
// by id; guest bookings provision a new guest identity so the patient can
// later authenticate and see their appointment.
type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// CreateGuestPatient provisions an identity from guest booking contact info.
func (s *Service) CreateGuestPatient(ctx context.Context, contact *model.GuestContact) (*model.Patient, error) {
	dob, err := time.Parse("2006-01-02", contact.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth: %w", err)
	}

	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		Name:        contact.FullName,
		Email:       contact.Email,
		Phone:       contact.Phone,
		DateOfBirth: dob,
		Gender:      contact.Gender,
		IsGuest:     true,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create guest patient: %w", err)
	}
	return patient, nil
}
