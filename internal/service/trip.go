// Package service contains the business logic for the trip planner API.
// Services enforce business rules, orchestrate repo calls and send mail.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/clock"
	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

// CreateTripInput carries everything needed to create a trip.
type CreateTripInput struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

// UpdateTripInput carries the mutable trip fields.
type UpdateTripInput struct {
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
}

// ConfirmResult reports what a trip confirmation did.
type ConfirmResult struct {
	// AlreadyConfirmed is set when the trip had been confirmed before; no
	// mail is sent in that case.
	AlreadyConfirmed bool

	// Invited is the number of participants an invitation was attempted for.
	Invited int
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	activities   repo.ActivityRepo
	notify       *Notifier
	clock        clock.Clock
	log          *slog.Logger
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, participants repo.ParticipantRepo, activities repo.ActivityRepo, notify *Notifier, clk clock.Clock, log *slog.Logger) *TripService {
	return &TripService{trips: trips, participants: participants, activities: activities, notify: notify, clock: clk, log: log}
}

// Create persists a trip together with its owner and invited participants,
// then mails the owner the trip confirmation link. A mail failure is logged
// and does not undo the trip.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if err := domain.ValidateTripDates(in.StartsAt, in.EndsAt, s.clock.Now(), true); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	participants := make([]domain.Participant, 0, len(in.EmailsToInvite)+1)
	participants = append(participants, domain.NewOwner(in.OwnerName, in.OwnerEmail))
	for _, email := range in.EmailsToInvite {
		participants = append(participants, domain.Participant{Email: email})
	}

	trip, saved, err := s.trips.CreateWithParticipants(ctx, domain.Trip{
		Destination: in.Destination,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}, participants)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	owner := participants[0]
	for _, p := range saved {
		if p.IsOwner {
			owner = p
			break
		}
	}
	if err := s.notify.TripConfirmation(ctx, trip, owner); err != nil {
		s.log.WarnContext(ctx, "trip confirmation mail not delivered",
			"trip_id", trip.ID,
			"email", owner.Email,
			"error", err,
		)
	}
	return trip, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update replaces destination and dates. Unlike Create, a start date in the
// past is accepted. The new range must still contain every activity already
// scheduled for the trip.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, in UpdateTripInput) (domain.Trip, error) {
	if err := domain.ValidateTripDates(in.StartsAt, in.EndsAt, s.clock.Now(), false); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	next := domain.Trip{
		ID:          id,
		Destination: in.Destination,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}

	activities, err := s.activities.ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	for _, a := range activities {
		if !next.Contains(a.OccursAt) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: activity %q on %s falls outside the new dates",
				domain.ErrInvalidDates, a.Title, a.OccursAt.UTC().Format(time.DateOnly))
		}
	}

	trip, err := s.trips.Update(ctx, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return trip, nil
}

// Confirm marks the trip confirmed and invites every non-owner participant.
// A trip that is already confirmed is left alone and nobody is mailed.
//
// The confirmed flag is persisted before any mail goes out, so a
// *domain.DeliveryError return still leaves the trip confirmed.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (ConfirmResult, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.IsConfirmed {
		return ConfirmResult{AlreadyConfirmed: true}, nil
	}

	flipped, err := s.trips.MarkConfirmed(ctx, id)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if !flipped {
		// Lost a race with a concurrent confirmation; it sends the mail.
		return ConfirmResult{AlreadyConfirmed: true}, nil
	}
	trip.IsConfirmed = true

	all, err := s.participants.ListByTripID(ctx, id)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	invitees := make([]domain.Participant, 0, len(all))
	for _, p := range all {
		if !p.IsOwner {
			invitees = append(invitees, p)
		}
	}

	result := ConfirmResult{Invited: len(invitees)}
	if err := s.notify.InviteAll(ctx, trip, invitees); err != nil {
		return result, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	return result, nil
}

// Delete removes a trip and everything attached to it.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
