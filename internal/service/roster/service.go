package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	"github.com/jwalitptl/scheduler-api/internal/service/schedule"
	"github.com/jwalitptl/scheduler-api/internal/service/staff"
)

// Grid reads tolerate slightly stale data; a booking that landed a moment
// ago showing as free in an overview is acceptable.
const (
	gridCacheTTL     = 30 * time.Second
	gridCacheCleanup = time.Minute
)

// Service is the read-only weekly projection: it merges the staff roster
// with schedule and slot data into week-by-staff grids. It never mutates
// the store and is safe to call concurrently with bookings.
type Service struct {
	schedules repository.ScheduleRepository
	staffSvc  *staff.Service
	cache     *cache.Cache
}

func NewService(schedules repository.ScheduleRepository, staffSvc *staff.Service) *Service {
	return &Service{
		schedules: schedules,
		staffSvc:  staffSvc,
		cache:     cache.New(gridCacheTTL, gridCacheCleanup),
	}
}

// WeeklyView returns the staff x days grid for [start, end], optionally
// filtered by department or staff role. Absent days render as off.
func (s *Service) WeeklyView(ctx context.Context, start, end time.Time, filters *model.StaffFilters) ([]*model.StaffWeek, error) {
	key := gridKey(start, end, filters)
	if cached, found := s.cache.Get(key); found {
		return cached.([]*model.StaffWeek), nil
	}

	staffList, err := s.staffSvc.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	start = schedule.Day(start)
	end = schedule.Day(end)

	schedules, err := s.schedules.ListByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	byStaff := make(map[uuid.UUID]map[time.Time]*model.WorkSchedule)
	for _, sched := range schedules {
		day := schedule.Day(sched.Date)
		if byStaff[sched.StaffID] == nil {
			byStaff[sched.StaffID] = make(map[time.Time]*model.WorkSchedule)
		}
		byStaff[sched.StaffID][day] = sched
	}

	grid := make([]*model.StaffWeek, 0, len(staffList))
	for _, member := range staffList {
		week := &model.StaffWeek{Staff: member}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			summary, err := s.daySummary(ctx, byStaff[member.ID][day], day)
			if err != nil {
				return nil, err
			}
			week.Days = append(week.Days, summary)
		}
		grid = append(grid, week)
	}

	s.cache.Set(key, grid, cache.DefaultExpiration)
	return grid, nil
}

// StaffWeeklyView returns one staff member's week including every slot.
func (s *Service) StaffWeeklyView(ctx context.Context, staffID uuid.UUID, start, end time.Time) (*model.StaffWeekDetail, error) {
	member, err := s.staffSvc.Get(ctx, staffID)
	if err != nil {
		return nil, err
	}

	start = schedule.Day(start)
	end = schedule.Day(end)

	schedules, err := s.schedules.ListByStaffAndRange(ctx, staffID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	byDay := make(map[time.Time]*model.WorkSchedule, len(schedules))
	for _, sched := range schedules {
		slots, err := s.schedules.ListSlots(ctx, sched.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list slots: %w", err)
		}
		sched.Slots = slots
		byDay[schedule.Day(sched.Date)] = sched
	}

	detail := &model.StaffWeekDetail{Staff: member, Schedules: schedules}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		sched := byDay[day]
		summary := offDay(day)
		if sched != nil {
			summary = summarize(sched, day, sched.Slots)
		}
		detail.Days = append(detail.Days, summary)
	}
	return detail, nil
}

func (s *Service) daySummary(ctx context.Context, sched *model.WorkSchedule, day time.Time) (*model.DaySummary, error) {
	if sched == nil {
		return offDay(day), nil
	}
	slots, err := s.schedules.ListSlots(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return summarize(sched, day, slots), nil
}

func summarize(sched *model.WorkSchedule, day time.Time, slots []*model.ScheduleSlot) *model.DaySummary {
	booked := 0
	for _, slot := range slots {
		if slot.Status == model.SlotStatusBooked {
			booked++
		}
	}
	return &model.DaySummary{
		Date:        day,
		ScheduleID:  sched.ID,
		StartTime:   sched.StartTime,
		EndTime:     sched.EndTime,
		TotalSlots:  len(slots),
		BookedSlots: booked,
	}
}

func offDay(day time.Time) *model.DaySummary {
	return &model.DaySummary{Date: day, Off: true}
}

func gridKey(start, end time.Time, filters *model.StaffFilters) string {
	dept, role := "", ""
	if filters != nil {
		dept = filters.Department
		role = string(filters.Role)
	}
	return fmt.Sprintf("grid:%s:%s:%s:%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"), dept, role)
}
