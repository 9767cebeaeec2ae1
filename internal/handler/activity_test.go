package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/handler"
)

func TestCreateActivity_returns200WithID(t *testing.T) {
	tripID, aid := uuid.New(), uuid.New()
	svc := &mockActivityServicer{
		create: func(_ context.Context, got uuid.UUID, title string, occursAt time.Time) (domain.Activity, error) {
			require.Equal(t, tripID, got)
			assert.Equal(t, "Trilha da Lagoinha", title)
			assert.True(t, occursAt.Equal(time.Date(2026, 1, 3, 14, 0, 0, 0, time.UTC)))
			return domain.Activity{ID: aid, TripID: tripID, Title: title, OccursAt: occursAt}, nil
		},
	}

	body := map[string]string{"title": "Trilha da Lagoinha", "occurs_at": "2026-01-03T14:00:00Z"}
	req := httptest.NewRequest(http.MethodPost, "/trips/"+tripID.String()+"/activities", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.CreateActivityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, aid, resp.ActivityID)
}

func TestCreateActivity_outsideTrip_returns400(t *testing.T) {
	svc := &mockActivityServicer{
		create: func(context.Context, uuid.UUID, string, time.Time) (domain.Activity, error) {
			return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", domain.ErrInvalidActivityDate)
		},
	}

	body := map[string]string{"title": "Trilha da Lagoinha", "occurs_at": "2027-01-03T14:00:00Z"}
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/activities", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "invalid_activity_date", resp.Error.Code)
	assert.Equal(t, "invalid activity date", resp.Error.Message)
}

func TestCreateActivity_badTimestamp_returns400(t *testing.T) {
	body := map[string]string{"title": "Trilha da Lagoinha", "occurs_at": "tomorrow"}
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/activities", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: &mockActivityServicer{}}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec.Body).Error.Code)
}

func TestCreateActivity_shortTitle_returns400(t *testing.T) {
	body := map[string]string{"title": "Bar", "occurs_at": "2026-01-03T14:00:00Z"}
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/activities", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: &mockActivityServicer{}}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"must be at least 4 characters"}, decodeError(t, rec.Body).Error.Fields["title"])
}

func TestListActivities_returnsEveryDay(t *testing.T) {
	trip := tripFixture()
	a := domain.Activity{ID: uuid.New(), TripID: trip.ID, Title: "Jantar", OccursAt: time.Date(2026, 1, 3, 20, 0, 0, 0, time.UTC)}
	svc := &mockActivityServicer{
		schedule: func(context.Context, uuid.UUID) ([]domain.DaySchedule, error) {
			return []domain.DaySchedule{
				{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Activities: []domain.Activity{}},
				{Date: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Activities: []domain.Activity{a}},
				{Date: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), Activities: []domain.Activity{}},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+trip.ID.String()+"/activities", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	var resp handler.ActivitiesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Activities, 3)
	assert.Empty(t, resp.Activities[0].Activities)
	require.Len(t, resp.Activities[1].Activities, 1)
	assert.Equal(t, "Jantar", resp.Activities[1].Activities[0].Title)
	assert.Equal(t, a.ID, resp.Activities[1].Activities[0].ID)
	assert.True(t, resp.Activities[2].Date.Equal(time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)))

	// empty days are arrays, not null
	assert.Contains(t, body, `"activities":[]`)
}

func TestListActivities_unknownTrip_returns404(t *testing.T) {
	svc := &mockActivityServicer{
		schedule: func(context.Context, uuid.UUID) ([]domain.DaySchedule, error) {
			return nil, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/activities", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
