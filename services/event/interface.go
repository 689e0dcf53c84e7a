package event

import (
	"context"
	"time"

	eventRepo "bcplughub/database/repository/event"
	userRepo "bcplughub/database/repository/user"
	"bcplughub/models"
	"bcplughub/services/notification"
)

type EventService interface {
	// Lifecycle
	CreateEvent(ctx context.Context, req models.EventCreateRequest) (*models.Event, error)
	GetEvent(eventID string) (*models.Event, error)
	ListPublicUpcoming() ([]models.Event, error)
	ListUpcomingWithin(window time.Duration) ([]models.Event, error)
	ListUserEvents(userID, status string) ([]models.Event, error)
	CancelEvent(ctx context.Context, eventID string, req models.CancelEventRequest) (*CancelResult, error)

	// Attendance
	RSVP(ctx context.Context, eventID string, req models.RSVPRequest) (*models.Event, error)
	CancelRSVP(eventID, userID string) (*models.Event, error)
	Attendees(eventID string) ([]models.Attendee, error)
	InviteUsers(ctx context.Context, eventID string, req models.InviteUsersRequest) (*InviteResult, error)
	AcceptInvite(ctx context.Context, notificationID string, req models.RSVPRequest) (*models.Event, error)
	DeclineInvite(notificationID string) error

	// History and ratings
	ArchivePastEvents(ctx context.Context) (*ArchiveResult, error)
	ArchiveUserPastEvents(ctx context.Context, userID string) (int, error)
	ListHistorical(limit, offset int64) ([]models.HistoricalEvent, error)
	RateEvent(ctx context.Context, eventID string, req models.RateEventRequest) (*RateResult, error)
	FinalizeRating(ctx context.Context, eventID string) (bool, error)
	FinalizeDueRatings(ctx context.Context) (int, error)
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Events     eventRepo.EventRepository
	Historical eventRepo.HistoricalRepository
	Users      userRepo.UserRepository
	Notifier   notification.NotificationService
	// Location is the campus time zone used for same-day checks and naive dates.
	Location *time.Location
	Now      func() time.Time
}

type CancelResult struct {
	RatingPenaltyApplied bool    `json:"rating_penalty_applied"`
	NewRating            float64 `json:"new_rating"`
	NotificationsSent    int     `json:"notifications_sent"`
}

type InviteResult struct {
	NotificationsCreated int      `json:"notifications_created"`
	TotalInvited         int      `json:"total_invited"`
	Skipped              []string `json:"skipped,omitempty"`
}

type ArchiveResult struct {
	EventsMoved  int `json:"events_moved"`
	UsersUpdated int `json:"users_updated"`
}

type RateResult struct {
	AverageRating   float64 `json:"average_rating"`
	TotalRatings    int     `json:"total_ratings"`
	RatingFinalized bool    `json:"rating_finalized"`
}

const (
	// CancellationPenalty is subtracted from an organiser who cancels on the day.
	CancellationPenalty = 2.0
	// RatingWindow is how long after the start attendees may rate.
	RatingWindow = 24 * time.Hour
	minRating    = 1
	maxRating    = 5
)

func (s *DefaultEventService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultEventService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}
