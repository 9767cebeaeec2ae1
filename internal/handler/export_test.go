package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
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

func itineraryFixture(tripID uuid.UUID) []domain.ScheduleRow {
	at := time.Date(2026, 1, 3, 14, 0, 0, 0, time.UTC)
	return []domain.ScheduleRow{
		{TripID: tripID.String(), Destination: "Florianópolis", Date: "2026-01-02"},
		{
			TripID:      tripID.String(),
			Destination: "Florianópolis",
			Date:        "2026-01-03",
			ActivityID:  "6d1f3a52-2f9e-4a0b-9c55-2b1c7f0e8a11",
			Title:       "Trilha da Lagoinha",
			OccursAt:    &at,
		},
	}
}

func newItineraryHandler(rows []domain.ScheduleRow) http.Handler {
	svc := &mockActivityServicer{
		itinerary: func(context.Context, uuid.UUID) ([]domain.ScheduleRow, error) { return rows, nil },
	}
	return newHTTPHandler(handler.Services{Activities: svc})
}

func TestGetItinerary_defaultsToJSON(t *testing.T) {
	tripID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/itinerary", nil)
	rec := httptest.NewRecorder()
	newItineraryHandler(itineraryFixture(tripID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []handler.ItineraryRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)

	assert.Equal(t, tripID, rows[0].TripID)
	assert.Equal(t, "2026-01-02", rows[0].Date.String())
	assert.Nil(t, rows[0].ActivityID)
	assert.Nil(t, rows[0].Title)
	assert.Nil(t, rows[0].OccursAt)

	require.NotNil(t, rows[1].Title)
	assert.Equal(t, "Trilha da Lagoinha", *rows[1].Title)
	require.NotNil(t, rows[1].ActivityID)
	assert.Equal(t, "6d1f3a52-2f9e-4a0b-9c55-2b1c7f0e8a11", rows[1].ActivityID.String())
}

func TestGetItinerary_csv(t *testing.T) {
	tripID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/itinerary?format=csv", nil)
	rec := httptest.NewRecorder()
	newItineraryHandler(itineraryFixture(tripID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="itinerary-`+tripID.String()+`.csv"`, rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"trip_id", "destination", "date", "activity_id", "title", "occurs_at"}, records[0])
	assert.Equal(t, []string{tripID.String(), "Florianópolis", "2026-01-02", "", "", ""}, records[1])
	assert.Equal(t, "Trilha da Lagoinha", records[2][4])
	assert.Equal(t, "2026-01-03T14:00:00Z", records[2][5])
}

func TestGetItinerary_unknownFormat_returns400(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/itinerary?format=xml", nil)
	rec := httptest.NewRecorder()
	newItineraryHandler(nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec.Body).Error.Fields, "format")
}

func TestGetItinerary_unknownTrip_returns404(t *testing.T) {
	svc := &mockActivityServicer{
		itinerary: func(context.Context, uuid.UUID) ([]domain.ScheduleRow, error) { return nil, domain.ErrNotFound },
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/itinerary?format=csv", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(handler.Services{Activities: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
