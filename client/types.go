package client

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a planned trip.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsConfirmed bool      `json:"is_confirmed"`
}

// CreateTripInput is the body of a trip creation request.
type CreateTripInput struct {
	Destination    string    `json:"destination"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	OwnerName      string    `json:"owner_name"`
	OwnerEmail     string    `json:"owner_email"`
	EmailsToInvite []string  `json:"emails_to_invite"`
}

// UpdateTripInput is the body of a trip update request.
type UpdateTripInput struct {
	Destination string    `json:"destination"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Participant is a person attached to a trip. Name is nil until they confirm.
type Participant struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsConfirmed bool      `json:"is_confirmed"`
	IsOwner     bool      `json:"is_owner"`
}

// Activity is an event scheduled inside a trip.
type Activity struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	OccursAt time.Time `json:"occurs_at"`
}

// Day is one calendar day of a trip's schedule.
type Day struct {
	Date       time.Time  `json:"date"`
	Activities []Activity `json:"activities"`
}

// ItineraryRow is one row of the flat itinerary. Activity fields are nil on
// days without activities.
type ItineraryRow struct {
	TripID      uuid.UUID  `json:"trip_id"`
	Destination string     `json:"destination"`
	Date        string     `json:"date"`
	ActivityID  *uuid.UUID `json:"activity_id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	OccursAt    *time.Time `json:"occurs_at,omitempty"`
}

// Link is a titled URL shared with a trip.
type Link struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
}
