package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/service"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Destination    string     `json:"destination" validate:"required,min=4"`
	StartsAt       *time.Time `json:"starts_at" validate:"required"`
	EndsAt         *time.Time `json:"ends_at" validate:"required"`
	OwnerName      string     `json:"owner_name" validate:"required"`
	OwnerEmail     string     `json:"owner_email" validate:"required,email"`
	EmailsToInvite []string   `json:"emails_to_invite" validate:"required,dive,email"`
}

// UpdateTripRequest is the body of PUT /trips/{tripId}.
type UpdateTripRequest struct {
	Destination string     `json:"destination" validate:"required,min=4"`
	StartsAt    *time.Time `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at" validate:"required"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID          openapi_types.UUID `json:"id"`
	Destination string             `json:"destination"`
	StartsAt    time.Time          `json:"starts_at"`
	EndsAt      time.Time          `json:"ends_at"`
	IsConfirmed bool               `json:"is_confirmed"`
}

// TripResponse wraps a single trip.
type TripResponse struct {
	Trip Trip `json:"trip"`
}

// CreateTripResponse carries the new trip's ID.
type CreateTripResponse struct {
	TripID openapi_types.UUID `json:"tripId"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	trip, err := s.trips.Create(r.Context(), service.CreateTripInput{
		Destination:    body.Destination,
		StartsAt:       *body.StartsAt,
		EndsAt:         *body.EndsAt,
		OwnerName:      body.OwnerName,
		OwnerEmail:     body.OwnerEmail,
		EmailsToInvite: body.EmailsToInvite,
	})
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, CreateTripResponse{TripID: trip.ID})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, TripResponse{Trip: tripToResponse(trip)})
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	var body UpdateTripRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	trip, err := s.trips.Update(r.Context(), id, service.UpdateTripInput{
		Destination: body.Destination,
		StartsAt:    *body.StartsAt,
		EndsAt:      *body.EndsAt,
	})
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, TripResponse{Trip: tripToResponse(trip)})
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmTrip handles GET /trips/{tripId}/confirm, the link mailed to the
// owner. It redirects to the trip page in the web app, whether the trip was
// confirmed now or before.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	res, err := s.trips.Confirm(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	s.log.InfoContext(r.Context(), "trip confirmed",
		"trip_id", id,
		"already_confirmed", res.AlreadyConfirmed,
		"invited", res.Invited,
	)
	http.Redirect(w, r, s.webBaseURL+"/trips/"+id.String(), http.StatusFound)
}

// --- mapping helpers --------------------------------------------------------

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		Destination: t.Destination,
		StartsAt:    t.StartsAt.UTC(),
		EndsAt:      t.EndsAt.UTC(),
		IsConfirmed: t.IsConfirmed,
	}
}
