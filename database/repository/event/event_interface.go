package eventRepo

import (
	"time"

	"bcplughub/models"
)

// EventRepository defines data access for live (not yet archived) events.
type EventRepository interface {
	Create(event *models.Event) error
	GetByID(id string) (*models.Event, error)
	Delete(id string) error

	// ListPublicUpcoming returns public upcoming events, soonest first.
	ListPublicUpcoming() ([]models.Event, error)
	// ListPublicUpcomingBetween limits ListPublicUpcoming to from <= date <= to.
	ListPublicUpcomingBetween(from, to time.Time) ([]models.Event, error)
	// ListByOrganizer returns the organiser's events, optionally filtered by status.
	ListByOrganizer(organizerID, status string) ([]models.Event, error)
	// ListStartedBefore returns every event whose date is before cutoff.
	ListStartedBefore(cutoff time.Time) ([]models.Event, error)

	// AddAttendee appends an attendee when the user is not already attending
	// and capacity remains. database.ErrNoMatch otherwise.
	AddAttendee(eventID string, attendee models.Attendee) (*models.Event, error)
	// RemoveAttendee drops the user's RSVP. database.ErrNoMatch if absent.
	RemoveAttendee(eventID, userID string) (*models.Event, error)
	// AddInvitees appends userIDs when none is already invited and the
	// invite list stays within capacity. database.ErrNoMatch otherwise.
	AddInvitees(eventID string, userIDs []string) (*models.Event, error)
}

// HistoricalRepository defines data access for archived events.
type HistoricalRepository interface {
	// Archive stores the snapshot; archiving the same event twice is a no-op.
	Archive(event *models.HistoricalEvent) error
	GetByOriginalID(eventID string) (*models.HistoricalEvent, error)
	List(limit, offset int64) ([]models.HistoricalEvent, error)
	// AddRating appends a rating and recomputes the aggregates atomically.
	// database.ErrNoMatch if the user already rated.
	AddRating(eventID string, rating models.EventRating) (*models.HistoricalEvent, error)
	// MarkFinalized flips rating_finalized; false if it was already set.
	MarkFinalized(eventID string, at time.Time) (bool, error)
	// ListFinalizable returns unfinalised events dated before cutoff with ratings.
	ListFinalizable(cutoff time.Time) ([]models.HistoricalEvent, error)
}

const defaultTimeout = 5 * time.Second
