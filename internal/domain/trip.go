// Package domain contains the core data types for the trip planner.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate root: participants, activities and links all belong
// to exactly one trip and are looked up through its ID.
type Trip struct {
	ID          uuid.UUID
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
	IsConfirmed bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contains reports whether t falls within [StartsAt, EndsAt], bounds inclusive.
func (tr Trip) Contains(t time.Time) bool {
	return !t.Before(tr.StartsAt) && !t.After(tr.EndsAt)
}

// MaxTripDays is the longest trip accepted, counted in UTC calendar days
// from the start day to the end day inclusive.
const MaxTripDays = 366

// ValidateTripDates enforces the date invariants of a trip.
// End must not be before start, and the trip may span at most MaxTripDays
// calendar days. When rejectPast is set (trip creation), start must not be
// strictly before now.
func ValidateTripDates(start, end, now time.Time, rejectPast bool) error {
	if rejectPast && start.Before(now) {
		return fmt.Errorf("%w: starts_at must not be in the past", ErrInvalidDates)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: ends_at must not be before starts_at", ErrInvalidDates)
	}
	if dayIndex(CalendarDay(start), CalendarDay(end))+1 > MaxTripDays {
		return fmt.Errorf("%w: a trip may span at most %d days", ErrInvalidDates, MaxTripDays)
	}
	return nil
}
