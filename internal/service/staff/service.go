package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service fronts the staff directory. Directory records change rarely, so
// single-staff lookups are cached; the booking path hits this on every
// request.
type Service struct {
	repo  repository.StaffRepository
	cache *cache.Cache
}

func NewService(repo repository.StaffRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	if cached, found := s.cache.Get(id.String()); found {
		return cached.(*model.Staff), nil
	}

	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(id.String(), staff, cache.DefaultExpiration)
	return staff, nil
}

// GetBookable resolves a staff member and verifies patients may book them.
func (s *Service) GetBookable(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff.Role.Bookable() {
		return nil, fmt.Errorf("staff member is not bookable: %w", repository.ErrStaffNotFound)
	}
	if !staff.IsAvailable {
		return nil, fmt.Errorf("staff member is not available: %w", repository.ErrStaffNotFound)
	}
	return staff, nil
}

func (s *Service) List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	return s.repo.List(ctx, filters)
}
