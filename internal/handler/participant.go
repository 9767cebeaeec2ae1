package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/backend/internal/domain"
)

// ConfirmParticipantRequest is the body of PATCH /participants/{participantId}/confirm.
type ConfirmParticipantRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CreateInviteRequest is the body of POST /trips/{tripId}/invites.
type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Participant is the JSON representation of a participant.
// Name is null until the participant confirms.
type Participant struct {
	ID          openapi_types.UUID `json:"id"`
	Name        *string            `json:"name"`
	Email       string             `json:"email"`
	IsConfirmed bool               `json:"is_confirmed"`
	IsOwner     bool               `json:"is_owner"`
}

// ParticipantsResponse lists a trip's participants.
type ParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

// ParticipantResponse wraps a single participant.
type ParticipantResponse struct {
	Participant Participant `json:"participant"`
}

// CreateInviteResponse carries the invited participant's ID.
type CreateInviteResponse struct {
	ParticipantID openapi_types.UUID `json:"participantId"`
}

// ListParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	ps, err := s.participants.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = participantToResponse(p)
	}
	writeJSON(w, http.StatusOK, ParticipantsResponse{Participants: out})
}

// GetTripParticipant handles GET /trips/{tripId}/participants/{participantId}.
func (s *Server) GetTripParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}
	id, err := uuidParam(r, "participantId")
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	p, err := s.participants.GetInTrip(r.Context(), tripID, id)
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	writeJSON(w, http.StatusOK, ParticipantResponse{Participant: participantToResponse(p)})
}

// GetParticipant handles GET /participants/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "participantId")
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	p, err := s.participants.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	writeJSON(w, http.StatusOK, ParticipantResponse{Participant: participantToResponse(p)})
}

// ConfirmParticipant handles PATCH /participants/{participantId}/confirm.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "participantId")
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}
	var body ConfirmParticipantRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	p, err := s.participants.Confirm(r.Context(), id, body.Name, body.Email)
	if err != nil {
		s.writeError(w, r, err, "participant")
		return
	}

	writeJSON(w, http.StatusOK, ParticipantResponse{Participant: participantToResponse(p)})
}

// CreateInvite handles POST /trips/{tripId}/invites.
func (s *Server) CreateInvite(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	var body CreateInviteRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	p, err := s.participants.Invite(r.Context(), tripID, body.Email)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, CreateInviteResponse{ParticipantID: p.ID})
}

func participantToResponse(p domain.Participant) Participant {
	return Participant{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		IsConfirmed: p.IsConfirmed,
		IsOwner:     p.IsOwner,
	}
}
