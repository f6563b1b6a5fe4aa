package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
	scheduleService "github.com/jwalitptl/scheduler-api/internal/service/schedule"
	"github.com/jwalitptl/scheduler-api/pkg/httputil"
)

type stubLifecycle struct {
	outcomes []*model.DateOutcome
	slots    []model.TimeSlot
	err      error

	deletedID uuid.UUID
	gotDates  []time.Time
}

func (s *stubLifecycle) CreateWeekly(_ context.Context, _ uuid.UUID, dates []time.Time, _, _ time.Time, _ time.Duration) ([]*model.DateOutcome, error) {
	s.gotDates = dates
	return s.outcomes, s.err
}

func (s *stubLifecycle) CopyFromPreviousWeek(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.DateOutcome, error) {
	return s.outcomes, s.err
}

func (s *stubLifecycle) DeleteSchedule(_ context.Context, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func (s *stubLifecycle) Preview(_, _ time.Time, _ time.Duration) ([]model.TimeSlot, error) {
	return s.slots, s.err
}

type stubRoster struct {
	grid   []*model.StaffWeek
	detail *model.StaffWeekDetail
	err    error

	gotFilters *model.StaffFilters
}

func (s *stubRoster) WeeklyView(_ context.Context, _, _ time.Time, filters *model.StaffFilters) ([]*model.StaffWeek, error) {
	s.gotFilters = filters
	return s.grid, s.err
}

func (s *stubRoster) StaffWeeklyView(_ context.Context, _ uuid.UUID, _, _ time.Time) (*model.StaffWeekDetail, error) {
	return s.detail, s.err
}

func newTestRouter(lifecycle Lifecycle, roster Roster) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(lifecycle, roster).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func weeklyBody() gin.H {
	return gin.H{
		"staff_id":      uuid.New().String(),
		"working_dates": []string{"2025-06-02", "2025-06-03"},
		"start_time":    "08:00",
		"end_time":      "17:00",
		"slot_duration": 30,
	}
}

func TestCreateWeeklySchedule(t *testing.T) {
	lifecycle := &stubLifecycle{outcomes: []*model.DateOutcome{
		{Status: model.DateOutcomeCreated, ScheduleID: uuid.New(), SlotCount: 18},
		{Status: model.DateOutcomeSkipped, Reason: "schedule already exists for this date"},
	}}
	r := newTestRouter(lifecycle, &stubRoster{})

	w := do(t, r, http.MethodPost, "/api/v1/schedules/weekly", weeklyBody())

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, lifecycle.gotDates, 2)

	resp := decode(t, w)
	assert.Equal(t, "success", resp.Status)
	outcomes := resp.Data.(map[string]interface{})["outcomes"].([]interface{})
	require.Len(t, outcomes, 2)
	first := outcomes[0].(map[string]interface{})
	assert.Equal(t, "created", first["status"])
	assert.Equal(t, float64(18), first["slot_count"])
	second := outcomes[1].(map[string]interface{})
	assert.Equal(t, "skipped", second["status"])
}

func TestCreateWeeklyScheduleValidation(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
	}{
		{"missing dates", gin.H{
			"staff_id": uuid.New().String(), "working_dates": []string{},
			"start_time": "08:00", "end_time": "17:00", "slot_duration": 30,
		}},
		{"bad time format", gin.H{
			"staff_id": uuid.New().String(), "working_dates": []string{"2025-06-02"},
			"start_time": "8am", "end_time": "17:00", "slot_duration": 30,
		}},
		{"duration below minimum", gin.H{
			"staff_id": uuid.New().String(), "working_dates": []string{"2025-06-02"},
			"start_time": "08:00", "end_time": "17:00", "slot_duration": 5,
		}},
		{"duration above maximum", gin.H{
			"staff_id": uuid.New().String(), "working_dates": []string{"2025-06-02"},
			"start_time": "08:00", "end_time": "17:00", "slot_duration": 180,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lifecycle := &stubLifecycle{}
			r := newTestRouter(lifecycle, &stubRoster{})

			w := do(t, r, http.MethodPost, "/api/v1/schedules/weekly", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, lifecycle.gotDates)
		})
	}
}

func TestCreateWeeklyScheduleInvalidRange(t *testing.T) {
	r := newTestRouter(&stubLifecycle{err: scheduleService.ErrInvalidRange}, &stubRoster{})

	w := do(t, r, http.MethodPost, "/api/v1/schedules/weekly", weeklyBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)
}

func TestCopyPreviousWeek(t *testing.T) {
	lifecycle := &stubLifecycle{outcomes: []*model.DateOutcome{
		{Status: model.DateOutcomeCreated, SlotCount: 18},
	}}
	r := newTestRouter(lifecycle, &stubRoster{})

	w := do(t, r, http.MethodPost, "/api/v1/schedules/copy-previous-week", gin.H{
		"staff_id":          uuid.New().String(),
		"target_week_start": "2025-06-09",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	outcomes := resp.Data.(map[string]interface{})["outcomes"].([]interface{})
	assert.Len(t, outcomes, 1)
}

func TestDeleteSchedule(t *testing.T) {
	lifecycle := &stubLifecycle{}
	r := newTestRouter(lifecycle, &stubRoster{})
	id := uuid.New()

	w := do(t, r, http.MethodDelete, "/api/v1/schedules/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, lifecycle.deletedID)
}

func TestDeleteScheduleErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"has bookings", repository.ErrScheduleHasBookings, http.StatusBadRequest},
		{"not found", repository.ErrScheduleNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubLifecycle{err: tc.err}, &stubRoster{})

			w := do(t, r, http.MethodDelete, "/api/v1/schedules/"+uuid.New().String(), nil)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "error", decode(t, w).Status)
		})
	}
}

func TestDeleteScheduleInvalidID(t *testing.T) {
	r := newTestRouter(&stubLifecycle{}, &stubRoster{})

	w := do(t, r, http.MethodDelete, "/api/v1/schedules/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeeklyView(t *testing.T) {
	roster := &stubRoster{grid: []*model.StaffWeek{
		{Staff: &model.Staff{Base: model.Base{ID: uuid.New()}, Name: "Dr. Okafor"}},
	}}
	r := newTestRouter(&stubLifecycle{}, roster)

	w := do(t, r, http.MethodGet,
		"/api/v1/schedules/weekly?start_date=2025-06-02&end_date=2025-06-08&staff_type=doctor&department=cardiology", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, roster.gotFilters)
	assert.Equal(t, model.StaffRoleDoctor, roster.gotFilters.Role)
	assert.Equal(t, "cardiology", roster.gotFilters.Department)
}

func TestWeeklyViewBadRange(t *testing.T) {
	r := newTestRouter(&stubLifecycle{}, &stubRoster{})

	w := do(t, r, http.MethodGet,
		"/api/v1/schedules/weekly?start_date=2025-06-08&end_date=2025-06-02", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffWeeklyView(t *testing.T) {
	staffID := uuid.New()
	roster := &stubRoster{detail: &model.StaffWeekDetail{
		Staff: &model.Staff{Base: model.Base{ID: staffID}, Name: "Dr. Okafor"},
	}}
	r := newTestRouter(&stubLifecycle{}, roster)

	w := do(t, r, http.MethodGet,
		"/api/v1/schedules/staff-weekly?staff_id="+staffID.String()+"&start_date=2025-06-02&end_date=2025-06-08", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	staff := resp.Data.(map[string]interface{})["staff"].(map[string]interface{})
	assert.Equal(t, "Dr. Okafor", staff["name"])
}

func TestPreviewSlots(t *testing.T) {
	start, _ := time.Parse("15:04", "08:00")
	lifecycle := &stubLifecycle{slots: []model.TimeSlot{
		{Start: start, End: start.Add(30 * time.Minute)},
		{Start: start.Add(30 * time.Minute), End: start.Add(time.Hour)},
	}}
	r := newTestRouter(lifecycle, &stubRoster{})

	w := do(t, r, http.MethodGet,
		"/api/v1/schedules/preview?start_time=08:00&end_time=09:00&slot_duration=30", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestPreviewSlotsBadDuration(t *testing.T) {
	r := newTestRouter(&stubLifecycle{}, &stubRoster{})

	w := do(t, r, http.MethodGet,
		"/api/v1/schedules/preview?start_time=08:00&end_time=09:00&slot_duration=abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
