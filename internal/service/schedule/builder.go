package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

// Builder materializes a day's WorkSchedule and its slots from a working-time
// range. It delegates all interval math to Partition.
type Builder struct {
	repo repository.ScheduleRepository
}

func NewBuilder(repo repository.ScheduleRepository) *Builder {
	return &Builder{repo: repo}
}

// Build creates and persists one schedule with its full set of free slots.
// start and end are time-of-day values; they are anchored onto date here.
func (b *Builder) Build(ctx context.Context, staffID uuid.UUID, date, start, end time.Time, slotDuration time.Duration) (*model.WorkSchedule, error) {
	date = Day(date)
	dayStart := OnDate(date, start)
	dayEnd := OnDate(date, end)

	partitions, err := Partition(dayStart, dayEnd, slotDuration)
	if err != nil {
		return nil, err
	}

	scheduleID := uuid.New()
	schedule := &model.WorkSchedule{
		Base:      model.Base{ID: scheduleID},
		StaffID:   staffID,
		Date:      date,
		StartTime: dayStart,
		EndTime:   dayEnd,
	}

	slots := make([]*model.ScheduleSlot, 0, len(partitions))
	for _, p := range partitions {
		slots = append(slots, &model.ScheduleSlot{
			Base:       model.Base{ID: uuid.New()},
			ScheduleID: scheduleID,
			StartTime:  p.Start,
			EndTime:    p.End,
			Status:     model.SlotStatusFree,
		})
	}
	schedule.Slots = slots

	if err := b.repo.CreateWithSlots(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// BuildMany applies Build once per date. Dates are independent: a failure or
// an existing schedule on one date never aborts the rest, so a partial week
// can be created. Every date gets a reported outcome.
func (b *Builder) BuildMany(ctx context.Context, staffID uuid.UUID, dates []time.Time, start, end time.Time, slotDuration time.Duration) []*model.DateOutcome {
	outcomes := make([]*model.DateOutcome, 0, len(dates))
	for _, date := range dates {
		date = Day(date)
		schedule, err := b.Build(ctx, staffID, date, start, end, slotDuration)
		switch {
		case err == nil:
			outcomes = append(outcomes, &model.DateOutcome{
				Date:       date,
				Status:     model.DateOutcomeCreated,
				ScheduleID: schedule.ID,
				SlotCount:  len(schedule.Slots),
			})
		case errors.Is(err, repository.ErrScheduleExists):
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   date,
				Status: model.DateOutcomeSkipped,
				Reason: "schedule already exists for this date",
			})
		default:
			outcomes = append(outcomes, &model.DateOutcome{
				Date:   date,
				Status: model.DateOutcomeFailed,
				Reason: err.Error(),
			})
		}
	}
	return outcomes
}
