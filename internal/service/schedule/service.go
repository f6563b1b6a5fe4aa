package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	"github.com/jwalitptl/scheduler-api/pkg/metrics"
)

// Service orchestrates the schedule lifecycle: weekly creation, copy from the
// previous week, and guarded deletion. Per (staff, date) the store is the
// serialization point; concurrent creates race on the unique index and the
// loser is reported as a skip.
type Service struct {
	repo    repository.ScheduleRepository
	builder *Builder
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo repository.ScheduleRepository, builder *Builder, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		builder: builder,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateWeekly builds one schedule per requested date. Dates already
// scheduled are reported as conflicts, never overwritten.
func (s *Service) CreateWeekly(ctx context.Context, staffID uuid.UUID, dates []time.Time, start, end time.Time, slotDuration time.Duration) ([]*model.DateOutcome, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("at least one working date is required")
	}

	outcomes := s.builder.BuildMany(ctx, staffID, dates, start, end, slotDuration)

	for _, o := range outcomes {
		if o.Status == model.DateOutcomeCreated {
			s.metrics.SchedulesCreated.Inc()
			s.metrics.SlotsCreated.Add(float64(o.SlotCount))
		}
	}

	s.logger.Info().
		Str("staff_id", staffID.String()).
		Int("dates", len(dates)).
		Msg("weekly schedule creation processed")

	return outcomes, nil
}

// CopyFromPreviousWeek replicates the prior week's working shape into the
// week starting at targetWeekStart. Only target days with no schedule are
// filled; existing days are left untouched, which also makes a second run a
// no-op.
func (s *Service) CopyFromPreviousWeek(ctx context.Context, staffID uuid.UUID, targetWeekStart time.Time) ([]*model.DateOutcome, error) {
	targetStart, _ := WeekWindow(targetWeekStart)
	sourceStart := targetStart.AddDate(0, 0, -7)
	sourceEnd := sourceStart.AddDate(0, 0, 6)

	sources, err := s.repo.ListByStaffAndRange(ctx, staffID, sourceStart, sourceEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read source week: %w", err)
	}

	outcomes := make([]*model.DateOutcome, 0, len(sources))
	for _, src := range sources {
		targetDate := Day(src.Date).AddDate(0, 0, 7)

		slots, err := s.repo.ListSlots(ctx, src.ID)
		if err != nil {
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   targetDate,
				Status: model.DateOutcomeFailed,
				Reason: err.Error(),
			})
			continue
		}
		if len(slots) == 0 {
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   targetDate,
				Status: model.DateOutcomeSkipped,
				Reason: "source day has no slots",
			})
			continue
		}
		duration := slots[0].EndTime.Sub(slots[0].StartTime)

		created, err := s.builder.Build(ctx, staffID, targetDate, src.StartTime, src.EndTime, duration)
		switch {
		case err == nil:
			s.metrics.SchedulesCreated.Inc()
			s.metrics.SlotsCreated.Add(float64(len(created.Slots)))
			outcomes = append(outcomes, &model.DateOutcome{
				Date:       targetDate,
				Status:     model.DateOutcomeCreated,
				ScheduleID: created.ID,
				SlotCount:  len(created.Slots),
			})
		case errors.Is(err, repository.ErrScheduleExists):
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   targetDate,
				Status: model.DateOutcomeSkipped,
				Reason: "target day already scheduled",
			})
		default:
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   targetDate,
				Status: model.DateOutcomeFailed,
				Reason: err.Error(),
			})
		}
	}

	s.logger.Info().
		Str("staff_id", staffID.String()).
		Time("target_week_start", targetStart).
		Int("source_days", len(sources)).
		Msg("copy from previous week processed")

	return outcomes, nil
}

// DeleteSchedule removes a schedule and its slots. The repository refuses
// the delete atomically when any slot is booked.
func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.SchedulesDeleted.Inc()
	return nil
}

// Preview partitions a working-time range without persisting anything. It
// runs the same partition code as Build, anchored on today's date.
func (s *Service) Preview(start, end time.Time, slotDuration time.Duration) ([]model.TimeSlot, error) {
	today := Day(s.now())
	return Partition(OnDate(today, start), OnDate(today, end), slotDuration)
}
