package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// Domain rule violations. Handlers map these to HTTP 400 with the plain message.
var (
	ErrInvalidDates        = errors.New("invalid trip dates")
	ErrInvalidActivityDate = errors.New("invalid activity date")
	ErrAlreadyConfirmed    = errors.New("participant already confirmed")
)

// IsDomainRule reports whether err is one of the business-rule violations
// that are surfaced to clients as a plain 400 message.
func IsDomainRule(err error) bool {
	return errors.Is(err, ErrInvalidDates) ||
		errors.Is(err, ErrInvalidActivityDate) ||
		errors.Is(err, ErrAlreadyConfirmed)
}

// DeliveryFailure records a single recipient whose mail could not be sent.
type DeliveryFailure struct {
	ParticipantID string
	Email         string
	Err           error
}

// DeliveryError is returned when one or more mails of a fan-out failed.
// Recipients not listed in Failures were delivered successfully.
type DeliveryError struct {
	Failures []DeliveryFailure
}

func (e *DeliveryError) Error() string {
	emails := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		emails[i] = f.Email
	}
	return fmt.Sprintf("mail delivery failed for %d recipient(s): %s", len(e.Failures), strings.Join(emails, ", "))
}

// Unwrap exposes the individual send errors to errors.Is / errors.As.
func (e *DeliveryError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
