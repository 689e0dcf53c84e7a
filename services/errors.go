package services

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEventNotFound  = errors.New("event not found")
	ErrAlreadyRSVPd   = errors.New("already rsvp'd to this event")
	ErrEventFull      = errors.New("event is at full capacity")
	ErrNotInvited     = errors.New("private event requires an invitation")
	ErrNotOrganizer   = errors.New("only the organizer can perform this action")
	ErrNotPrivate     = errors.New("invites are only available for private events")
	ErrAlreadyInvited = errors.New("user is already invited to this event")

	ErrHistoricalNotFound = errors.New("historical event not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrRatingWindowClosed = errors.New("rating window has closed")
	ErrNotEligibleToRate  = errors.New("only attendees and invitees can rate this event")
	ErrAlreadyRated       = errors.New("user already rated this event")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotAnInvite          = errors.New("notification is not an invitation")
)

// ValidationError reports a rejected field and unwraps to ErrInvalidInput.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CapacityError reports how many invite slots remain and unwraps to ErrEventFull.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Only %d spots remaining", e.Remaining)
}

func (e *CapacityError) Unwrap() error { return ErrEventFull }
