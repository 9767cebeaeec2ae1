package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/backend/internal/domain"
)

// CreateActivityRequest is the body of POST /trips/{tripId}/activities.
type CreateActivityRequest struct {
	Title    string     `json:"title" validate:"required,min=4"`
	OccursAt *time.Time `json:"occurs_at" validate:"required"`
}

// Activity is the JSON representation of an activity.
type Activity struct {
	ID       openapi_types.UUID `json:"id"`
	Title    string             `json:"title"`
	OccursAt time.Time          `json:"occurs_at"`
}

// DayActivities is one calendar day of the schedule.
type DayActivities struct {
	Date       time.Time  `json:"date"`
	Activities []Activity `json:"activities"`
}

// ActivitiesResponse is the day-bucketed schedule of a trip.
type ActivitiesResponse struct {
	Activities []DayActivities `json:"activities"`
}

// CreateActivityResponse carries the new activity's ID.
type CreateActivityResponse struct {
	ActivityID openapi_types.UUID `json:"activityId"`
}

// CreateActivity handles POST /trips/{tripId}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	var body CreateActivityRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	a, err := s.activities.Create(r.Context(), tripID, body.Title, *body.OccursAt)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, CreateActivityResponse{ActivityID: a.ID})
}

// ListActivities handles GET /trips/{tripId}/activities.
// Every day of the trip is present, including days without activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	days, err := s.activities.Schedule(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	out := make([]DayActivities, len(days))
	for i, d := range days {
		out[i] = dayToResponse(d)
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Activities: out})
}

func dayToResponse(d domain.DaySchedule) DayActivities {
	acts := make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		acts[i] = Activity{ID: a.ID, Title: a.Title, OccursAt: a.OccursAt.UTC()}
	}
	return DayActivities{Date: d.Date, Activities: acts}
}
