package schedule

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	scheduleService "github.com/jwalitptl/scheduler-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/scheduler-api/pkg/errors"
	"github.com/jwalitptl/scheduler-api/pkg/httputil"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Lifecycle is the slice of the schedule service the handler needs.
type Lifecycle interface {
	CreateWeekly(ctx context.Context, staffID uuid.UUID, dates []time.Time, start, end time.Time, slotDuration time.Duration) ([]*model.DateOutcome, error)
	CopyFromPreviousWeek(ctx context.Context, staffID uuid.UUID, targetWeekStart time.Time) ([]*model.DateOutcome, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
	Preview(start, end time.Time, slotDuration time.Duration) ([]model.TimeSlot, error)
}

// Roster is the read-only weekly projection.
type Roster interface {
	WeeklyView(ctx context.Context, start, end time.Time, filters *model.StaffFilters) ([]*model.StaffWeek, error)
	StaffWeeklyView(ctx context.Context, staffID uuid.UUID, start, end time.Time) (*model.StaffWeekDetail, error)
}

type Handler struct {
	lifecycle Lifecycle
	roster    Roster
}

func NewHandler(lifecycle Lifecycle, roster Roster) *Handler {
	return &Handler{lifecycle: lifecycle, roster: roster}
}

func (h *Handler) CreateWeeklySchedule(c *gin.Context) {
	var req model.CreateWeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	dates := make([]time.Time, 0, len(req.WorkingDates))
	for _, d := range req.WorkingDates {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid working date: "+d, err))
			return
		}
		dates = append(dates, date)
	}

	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid start time", err))
		return
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid end time", err))
		return
	}

	outcomes, err := h.lifecycle.CreateWeekly(c.Request.Context(), staffID, dates, start, end,
		time.Duration(req.SlotDuration)*time.Minute)
	if err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"outcomes": outcomes})
}

func (h *Handler) CopyPreviousWeek(c *gin.Context) {
	var req model.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}
	weekStart, err := time.Parse(dateLayout, req.TargetWeekStart)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid target week start", err))
		return
	}

	outcomes, err := h.lifecycle.CopyFromPreviousWeek(c.Request.Context(), staffID, weekStart)
	if err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"outcomes": outcomes})
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule ID", err))
		return
	}

	if err := h.lifecycle.DeleteSchedule(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) WeeklyView(c *gin.Context) {
	start, end, err := parseRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	filters := &model.StaffFilters{
		Department: c.Query("department"),
		Role:       model.StaffRole(c.Query("staff_type")),
	}

	grid, err := h.roster.WeeklyView(c.Request.Context(), start, end, filters)
	if err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"grid": grid})
}

func (h *Handler) StaffWeeklyView(c *gin.Context) {
	staffID, err := uuid.Parse(c.Query("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	start, end, err := parseRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	detail, err := h.roster.StaffWeeklyView(c.Request.Context(), staffID, start, end)
	if err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, detail)
}

// PreviewSlots partitions a time range without persisting; the UI shows the
// result before the schedule is saved.
func (h *Handler) PreviewSlots(c *gin.Context) {
	start, err := time.Parse(timeLayout, c.Query("start_time"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid start time", err))
		return
	}
	end, err := time.Parse(timeLayout, c.Query("end_time"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid end time", err))
		return
	}
	minutes, err := strconv.Atoi(c.Query("slot_duration"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid slot duration", err))
		return
	}

	slots, err := h.lifecycle.Preview(start, end, time.Duration(minutes)*time.Minute)
	if err != nil {
		httputil.RespondWithError(c, mapScheduleError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"slots": slots, "count": len(slots)})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/schedules")
	{
		schedules.POST("/weekly", h.CreateWeeklySchedule)
		schedules.POST("/copy-previous-week", h.CopyPreviousWeek)
		schedules.DELETE("/:id", h.DeleteSchedule)
		schedules.GET("/weekly", h.WeeklyView)
		schedules.GET("/staff-weekly", h.StaffWeeklyView)
		schedules.GET("/preview", h.PreviewSlots)
	}
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end_date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end_date must not precede start_date")
	}
	return start, end, nil
}

func mapScheduleError(err error) error {
	switch {
	case errors.Is(err, repository.ErrScheduleNotFound):
		return apperrors.NotFound("schedule", err)
	case errors.Is(err, repository.ErrStaffNotFound):
		return apperrors.NotFound("staff", err)
	case errors.Is(err, repository.ErrScheduleHasBookings):
		return apperrors.Conflict(err.Error(), err)
	case errors.Is(err, scheduleService.ErrInvalidRange),
		errors.Is(err, scheduleService.ErrInvalidDuration):
		return apperrors.BadRequest(err.Error(), err)
	default:
		return apperrors.Internal(err)
	}
}
