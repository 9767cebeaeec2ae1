package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantState is the lifecycle state of a participant.
type ParticipantState string

const (
	ParticipantPending   ParticipantState = "pending"
	ParticipantConfirmed ParticipantState = "confirmed"
)

// Participant is a person attached to a trip: the owner (created confirmed)
// or an invitee (created pending, with no name, until they confirm).
type Participant struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Name        *string
	Email       string
	IsConfirmed bool
	IsOwner     bool
	CreatedAt   time.Time
}

// NewOwner builds the pre-confirmed owner participant for a new trip.
func NewOwner(name, email string) Participant {
	return Participant{Name: &name, Email: email, IsConfirmed: true, IsOwner: true}
}

// NewInvitee builds a pending participant for an invited email.
func NewInvitee(tripID uuid.UUID, email string) Participant {
	return Participant{TripID: tripID, Email: email}
}

// State derives the lifecycle state from the confirmed flag.
func (p Participant) State() ParticipantState {
	if p.IsConfirmed {
		return ParticipantConfirmed
	}
	return ParticipantPending
}

// Confirm moves a pending participant to confirmed, recording the name and
// email they confirmed with. The transition is one-way.
func (p *Participant) Confirm(name, email string) error {
	if p.State() == ParticipantConfirmed {
		return ErrAlreadyConfirmed
	}
	p.Name = &name
	p.Email = email
	p.IsConfirmed = true
	return nil
}
