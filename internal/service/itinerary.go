package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
)

// Itinerary returns the trip's schedule as a flat table: one row per
// activity, plus one empty row for each day without activities.
func (s *ActivityService) Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.ScheduleRow, error) {
	trip, days, err := s.schedule(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.Itinerary: %w", err)
	}
	return domain.FlattenSchedule(trip, days), nil
}
