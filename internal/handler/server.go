// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, participant.go, ...) but share the Server struct so
// they can access its dependencies. Routes are declared in routes.go.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Handler tests substitute a mock.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (service.ConfirmResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParticipantServicer defines the participant operations.
type ParticipantServicer interface {
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	GetInTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	Confirm(ctx context.Context, id uuid.UUID, name, email string) (domain.Participant, error)
	Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error)
}

// ActivityServicer defines the activity and itinerary operations.
type ActivityServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error)
	Schedule(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error)
	Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.ScheduleRow, error)
}

// LinkServicer defines the link operations.
type LinkServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

// Services groups the handler dependencies.
type Services struct {
	Trips        TripServicer
	Participants ParticipantServicer
	Activities   ActivityServicer
	Links        LinkServicer
}

// Server serves every API endpoint.
type Server struct {
	trips        TripServicer
	participants ParticipantServicer
	activities   ActivityServicer
	links        LinkServicer

	webBaseURL string
	log        *slog.Logger
	validate   *validator.Validate
}

// NewServer constructs the Server. webBaseURL is where a confirmed trip
// redirects to.
func NewServer(svc Services, webBaseURL string, log *slog.Logger) *Server {
	return &Server{
		trips:        svc.Trips,
		participants: svc.Participants,
		activities:   svc.Activities,
		links:        svc.Links,
		webBaseURL:   webBaseURL,
		log:          log,
		validate:     newValidator(),
	}
}
