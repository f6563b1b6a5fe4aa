package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	"github.com/jwalitptl/scheduler-api/pkg/metrics"
)

// One registration per test binary; prometheus panics on duplicates.
var testMetrics = metrics.NewMetrics("scheduler_test", "schedule")

// fakeScheduleRepo is an in-memory store honoring the same uniqueness and
// guard contracts as the Postgres repository.
type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*model.WorkSchedule
	slots     map[uuid.UUID][]*model.ScheduleSlot
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[uuid.UUID]*model.WorkSchedule),
		slots:     make(map[uuid.UUID][]*model.ScheduleSlot),
	}
}

func (f *fakeScheduleRepo) CreateWithSlots(_ context.Context, schedule *model.WorkSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.schedules {
		if existing.StaffID == schedule.StaffID && existing.Date.Equal(schedule.Date) {
			return repository.ErrScheduleExists
		}
	}
	stored := *schedule
	stored.Slots = nil
	f.schedules[schedule.ID] = &stored
	f.slots[schedule.ID] = append([]*model.ScheduleSlot{}, schedule.Slots...)
	return nil
}

func (f *fakeScheduleRepo) Get(_ context.Context, id uuid.UUID) (*model.WorkSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) GetByStaffAndDate(_ context.Context, staffID uuid.UUID, date time.Time) (*model.WorkSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.StaffID == staffID && s.Date.Equal(date) {
			return s, nil
		}
	}
	return nil, repository.ErrScheduleNotFound
}

func (f *fakeScheduleRepo) ListByStaffAndRange(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.WorkSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WorkSchedule
	for _, s := range f.schedules {
		if s.StaffID == staffID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByRange(_ context.Context, from, to time.Time) ([]*model.WorkSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WorkSchedule
	for _, s := range f.schedules {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListSlots(_ context.Context, scheduleID uuid.UUID) ([]*model.ScheduleSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.ScheduleSlot{}, f.slots[scheduleID]...), nil
}

func (f *fakeScheduleRepo) GetSlot(_ context.Context, slotID uuid.UUID) (*model.ScheduleSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slots := range f.slots {
		for _, slot := range slots {
			if slot.ID == slotID {
				return slot, nil
			}
		}
	}
	return nil, repository.ErrSlotNotFound
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return repository.ErrScheduleNotFound
	}
	for _, slot := range f.slots[id] {
		if slot.Status == model.SlotStatusBooked {
			return repository.ErrScheduleHasBookings
		}
	}
	delete(f.schedules, id)
	delete(f.slots, id)
	return nil
}

func newTestService(repo *fakeScheduleRepo) *Service {
	return NewService(repo, NewBuilder(repo), testMetrics, zerolog.Nop())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func workweek() []time.Time {
	return []time.Time{
		date(2025, 6, 2), date(2025, 6, 3), date(2025, 6, 4),
		date(2025, 6, 5), date(2025, 6, 6),
	}
}

func TestCreateWeekly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	outcomes, err := svc.CreateWeekly(ctx, staffID, workweek(), at(8, 0), at(17, 0), 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	totalSlots := 0
	for _, o := range outcomes {
		assert.Equal(t, model.DateOutcomeCreated, o.Status)
		assert.Equal(t, 18, o.SlotCount)
		totalSlots += o.SlotCount
	}
	assert.Equal(t, 90, totalSlots)
}

func TestCreateWeeklyReportsConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	_, err := svc.CreateWeekly(ctx, staffID, []time.Time{date(2025, 6, 2)}, at(8, 0), at(12, 0), 30*time.Minute)
	require.NoError(t, err)

	outcomes, err := svc.CreateWeekly(ctx, staffID, workweek(), at(8, 0), at(17, 0), 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	assert.Equal(t, model.DateOutcomeSkipped, outcomes[0].Status)
	for _, o := range outcomes[1:] {
		assert.Equal(t, model.DateOutcomeCreated, o.Status)
	}
}

func TestCreateWeeklyReportsPerDateFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeScheduleRepo())

	outcomes, err := svc.CreateWeekly(ctx, uuid.New(), workweek(), at(8, 0), at(17, 0), 5*time.Minute)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.Equal(t, model.DateOutcomeFailed, o.Status)
		assert.Contains(t, o.Reason, "duration")
	}
}

func TestCreateWeeklyRequiresDates(t *testing.T) {
	svc := newTestService(newFakeScheduleRepo())
	_, err := svc.CreateWeekly(context.Background(), uuid.New(), nil, at(8, 0), at(17, 0), 30*time.Minute)
	assert.Error(t, err)
}

func TestCopyFromPreviousWeek(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	// Source week: Monday and Tuesday.
	_, err := svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 2), date(2025, 6, 3)},
		at(9, 0), at(13, 0), 60*time.Minute)
	require.NoError(t, err)

	outcomes, err := svc.CopyFromPreviousWeek(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for _, o := range outcomes {
		assert.Equal(t, model.DateOutcomeCreated, o.Status)
		assert.Equal(t, 4, o.SlotCount)
	}

	created, err := repo.GetByStaffAndDate(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	assert.Equal(t, 9, created.StartTime.Hour())
	assert.Equal(t, 13, created.EndTime.Hour())
}

func TestCopyFromPreviousWeekIsAdditive(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	_, err := svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 2), date(2025, 6, 3)},
		at(9, 0), at(13, 0), 60*time.Minute)
	require.NoError(t, err)

	// Target Monday already has its own shape; only Tuesday should be copied.
	_, err = svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 9)}, at(14, 0), at(16, 0), 30*time.Minute)
	require.NoError(t, err)

	outcomes, err := svc.CopyFromPreviousWeek(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	byDate := map[string]*model.DateOutcome{}
	for _, o := range outcomes {
		byDate[o.Date.Format("2006-01-02")] = o
	}
	assert.Equal(t, model.DateOutcomeSkipped, byDate["2025-06-09"].Status)
	assert.Equal(t, model.DateOutcomeCreated, byDate["2025-06-10"].Status)

	// The pre-existing Monday schedule keeps its own hours.
	monday, err := repo.GetByStaffAndDate(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	assert.Equal(t, 14, monday.StartTime.Hour())
}

func TestCopyFromPreviousWeekIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	_, err := svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 2)}, at(9, 0), at(13, 0), 60*time.Minute)
	require.NoError(t, err)

	first, err := svc.CopyFromPreviousWeek(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, model.DateOutcomeCreated, first[0].Status)

	second, err := svc.CopyFromPreviousWeek(ctx, staffID, date(2025, 6, 9))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, model.DateOutcomeSkipped, second[0].Status)
}

func TestDeleteSchedule(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	outcomes, err := svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 2)}, at(8, 0), at(12, 0), 30*time.Minute)
	require.NoError(t, err)
	scheduleID := outcomes[0].ScheduleID

	require.NoError(t, svc.DeleteSchedule(ctx, scheduleID))

	_, err = repo.Get(ctx, scheduleID)
	assert.ErrorIs(t, err, repository.ErrScheduleNotFound)
}

func TestDeleteScheduleWithBookingsIsRefused(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)
	staffID := uuid.New()

	outcomes, err := svc.CreateWeekly(ctx, staffID,
		[]time.Time{date(2025, 6, 2)}, at(8, 0), at(12, 0), 30*time.Minute)
	require.NoError(t, err)
	scheduleID := outcomes[0].ScheduleID

	slots, err := repo.ListSlots(ctx, scheduleID)
	require.NoError(t, err)
	repo.slots[scheduleID][0].Status = model.SlotStatusBooked

	err = svc.DeleteSchedule(ctx, scheduleID)
	assert.ErrorIs(t, err, repository.ErrScheduleHasBookings)

	// Nothing was removed.
	_, err = repo.Get(ctx, scheduleID)
	require.NoError(t, err)
	remaining, err := repo.ListSlots(ctx, scheduleID)
	require.NoError(t, err)
	assert.Len(t, remaining, len(slots))
}

func TestPreviewMatchesPartition(t *testing.T) {
	svc := newTestService(newFakeScheduleRepo())
	svc.now = func() time.Time { return date(2025, 6, 2) }

	slots, err := svc.Preview(at(8, 0), at(17, 0), 30*time.Minute)
	require.NoError(t, err)
	assert.Len(t, slots, 18)
}
