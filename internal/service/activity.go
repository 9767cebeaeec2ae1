package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

// ActivityService implements business logic for Activity operations.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

// Create schedules an activity. occursAt must fall within the trip's
// [StartsAt, EndsAt]; otherwise domain.ErrInvalidActivityDate is returned
// and nothing is stored.
func (s *ActivityService) Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	if !trip.Contains(occursAt) {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w: occurs_at must be between the trip start and end", domain.ErrInvalidActivityDate)
	}

	a, err := s.activities.Create(ctx, domain.Activity{TripID: tripID, Title: title, OccursAt: occursAt})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return a, nil
}

// Schedule returns the trip's activities bucketed per calendar day, one
// bucket for every day of the trip.
func (s *ActivityService) Schedule(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error) {
	_, days, err := s.schedule(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.Schedule: %w", err)
	}
	return days, nil
}

func (s *ActivityService) schedule(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.DaySchedule, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return trip, domain.BuildSchedule(trip, activities), nil
}
