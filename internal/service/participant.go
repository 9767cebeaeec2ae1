package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

// ParticipantService implements business logic for Participant operations.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notify       *Notifier
	log          *slog.Logger
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, notify *Notifier, log *slog.Logger) *ParticipantService {
	return &ParticipantService{trips: trips, participants: participants, notify: notify, log: log}
}

// ListByTripID returns the trip's participants, confirmed first.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ParticipantService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	ps, err := s.participants.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	if ps == nil {
		ps = []domain.Participant{}
	}
	return ps, nil
}

// GetByID loads a participant directly by its own ID.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// GetInTrip loads a participant only if it belongs to tripID.
// A participant of another trip is reported as domain.ErrNotFound.
func (s *ParticipantService) GetInTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetInTrip: %w", err)
	}
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetInTrip: %w", err)
	}
	if p.TripID != tripID {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetInTrip: participant %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Confirm moves a pending participant to confirmed with the given name and
// email. Confirming twice fails with domain.ErrAlreadyConfirmed.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID, name, email string) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	if err := p.Confirm(name, email); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}

	saved, err := s.participants.Confirm(ctx, p)
	if errors.Is(err, domain.ErrNotFound) {
		// The row existed a moment ago, so a concurrent request confirmed it.
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", domain.ErrAlreadyConfirmed)
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	return saved, nil
}

// Invite adds a pending participant to the trip and mails them the
// invitation. A mail failure is logged and the participant is kept.
func (s *ParticipantService) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}
	p, err := s.participants.Create(ctx, domain.NewInvitee(tripID, email))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}
	if err := s.notify.Invitation(ctx, trip, p); err != nil {
		s.log.WarnContext(ctx, "invitation not delivered",
			"trip_id", trip.ID,
			"participant_id", p.ID,
			"email", p.Email,
			"error", err,
		)
	}
	return p, nil
}
