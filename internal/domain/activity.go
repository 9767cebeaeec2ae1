package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a titled event scheduled inside a trip's date range.
type Activity struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	OccursAt  time.Time
	CreatedAt time.Time
}

// Link is a titled reference URL shared with a trip's participants.
type Link struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	URL       string
	CreatedAt time.Time
}
