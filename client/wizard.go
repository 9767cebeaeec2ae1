package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Step is a screen of the new-trip wizard.
type Step int

const (
	// StepTripDetails collects the destination and dates.
	StepTripDetails Step = iota
	// StepInviteEmails collects the guest list and submits the trip.
	StepInviteEmails
)

func (s Step) String() string {
	switch s {
	case StepTripDetails:
		return "trip_details"
	case StepInviteEmails:
		return "invite_emails"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Wizard errors.
var (
	ErrWrongStep          = errors.New("action not allowed in current step")
	ErrInvalidDestination = errors.New("destination must have at least 4 characters")
	ErrInvalidDates       = errors.New("end date must not be before start date")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrDuplicateEmail     = errors.New("email already added")
)

const minDestinationLen = 4

// TripCreator is the part of Client the wizard submits to.
type TripCreator interface {
	CreateTrip(ctx context.Context, in CreateTripInput) (uuid.UUID, error)
}

// TripWizard is the two-step new-trip form. Details are editable only in
// StepTripDetails; guests can be edited and the trip submitted only in
// StepInviteEmails. The zero value is not usable; call NewTripWizard.
type TripWizard struct {
	step        Step
	destination string
	startsAt    time.Time
	endsAt      time.Time
	emails      []string

	validate *validator.Validate
}

// NewTripWizard returns a wizard at StepTripDetails.
func NewTripWizard() *TripWizard {
	return &TripWizard{step: StepTripDetails, validate: validator.New()}
}

// Step returns the current step.
func (w *TripWizard) Step() Step { return w.step }

// Destination returns the entered destination.
func (w *TripWizard) Destination() string { return w.destination }

// Dates returns the selected date range.
func (w *TripWizard) Dates() (start, end time.Time) { return w.startsAt, w.endsAt }

// Emails returns a copy of the guest list in insertion order.
func (w *TripWizard) Emails() []string { return slices.Clone(w.emails) }

// SetDetails records destination and dates. Validation is deferred to Next
// so a partially filled form can be stored.
func (w *TripWizard) SetDetails(destination string, start, end time.Time) error {
	if w.step != StepTripDetails {
		return fmt.Errorf("SetDetails in %s: %w", w.step, ErrWrongStep)
	}
	w.destination = strings.TrimSpace(destination)
	w.startsAt = start
	w.endsAt = end
	return nil
}

// Next moves from StepTripDetails to StepInviteEmails once the details
// are valid.
func (w *TripWizard) Next() error {
	if w.step != StepTripDetails {
		return fmt.Errorf("Next in %s: %w", w.step, ErrWrongStep)
	}
	if len([]rune(w.destination)) < minDestinationLen {
		return ErrInvalidDestination
	}
	if w.startsAt.IsZero() || w.endsAt.IsZero() || w.endsAt.Before(w.startsAt) {
		return ErrInvalidDates
	}
	w.step = StepInviteEmails
	return nil
}

// Back returns to StepTripDetails, keeping the guest list.
func (w *TripWizard) Back() error {
	if w.step != StepInviteEmails {
		return fmt.Errorf("Back in %s: %w", w.step, ErrWrongStep)
	}
	w.step = StepTripDetails
	return nil
}

// AddEmail appends a guest. Emails are compared case-insensitively.
func (w *TripWizard) AddEmail(email string) error {
	if w.step != StepInviteEmails {
		return fmt.Errorf("AddEmail in %s: %w", w.step, ErrWrongStep)
	}
	email = strings.TrimSpace(email)
	if err := w.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if w.indexOf(email) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateEmail, email)
	}
	w.emails = append(w.emails, email)
	return nil
}

// RemoveEmail drops a guest. Removing an absent email is a no-op.
func (w *TripWizard) RemoveEmail(email string) error {
	if w.step != StepInviteEmails {
		return fmt.Errorf("RemoveEmail in %s: %w", w.step, ErrWrongStep)
	}
	if i := w.indexOf(strings.TrimSpace(email)); i >= 0 {
		w.emails = slices.Delete(w.emails, i, i+1)
	}
	return nil
}

// Submit creates the trip through c. The wizard is left unchanged so a
// failed submit can be retried.
func (w *TripWizard) Submit(ctx context.Context, c TripCreator, ownerName, ownerEmail string) (uuid.UUID, error) {
	if w.step != StepInviteEmails {
		return uuid.Nil, fmt.Errorf("Submit in %s: %w", w.step, ErrWrongStep)
	}
	id, err := c.CreateTrip(ctx, CreateTripInput{
		Destination:    w.destination,
		StartsAt:       w.startsAt,
		EndsAt:         w.endsAt,
		OwnerName:      ownerName,
		OwnerEmail:     ownerEmail,
		EmailsToInvite: w.Emails(),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (w *TripWizard) indexOf(email string) int {
	return slices.IndexFunc(w.emails, func(e string) bool {
		return strings.EqualFold(e, email)
	})
}
