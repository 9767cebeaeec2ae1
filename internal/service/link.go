package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

// LinkService implements business logic for Link operations.
type LinkService struct {
	trips repo.TripRepo
	links repo.LinkRepo
}

// NewLinkService constructs a LinkService.
func NewLinkService(trips repo.TripRepo, links repo.LinkRepo) *LinkService {
	return &LinkService{trips: trips, links: links}
}

// Create attaches a link to an existing trip.
func (s *LinkService) Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}
	l, err := s.links.Create(ctx, domain.Link{TripID: tripID, Title: title, URL: url})
	if err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}
	return l, nil
}

// ListByTripID returns the trip's links in the order they were added.
func (s *LinkService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	links, err := s.links.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	if links == nil {
		links = []domain.Link{}
	}
	return links, nil
}
