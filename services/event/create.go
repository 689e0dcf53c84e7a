package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func eventErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return services.ErrEventNotFound
	}
	return err
}

// normalizeCreate validates the request and applies defaults.
func (s *DefaultEventService) normalizeCreate(req models.EventCreateRequest) (*models.Event, error) {
	name := strings.TrimSpace(req.FunctionName)
	if name == "" {
		return nil, services.Invalid("Function name is required")
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, services.Invalid("Location is required")
	}
	date, err := utils.ParseEventTime(req.Date, s.location())
	if err != nil {
		return nil, services.Invalid("Invalid date format")
	}

	capacity := req.MaxCapacity
	if capacity == 0 {
		capacity = models.DefaultMaxCapacity
	}
	if capacity < 1 || capacity > models.MaxAllowedCapacity {
		return nil, services.Invalid("Max capacity must be between 1 and %d", models.MaxAllowedCapacity)
	}

	visibility := strings.ToLower(strings.TrimSpace(req.PublicOrPrivate))
	switch visibility {
	case "":
		visibility = models.VisibilityPublic
	case models.VisibilityPublic, models.VisibilityPrivate:
	default:
		return nil, services.Invalid("public_or_private must be 'public' or 'private'")
	}

	alias := strings.TrimSpace(req.OrganizerAlias)
	if alias == "" {
		alias = models.DefaultOrganizerAlias
	}
	vibe := req.EmojiVibe
	if vibe == nil {
		vibe = []string{}
	}

	return &models.Event{
		ID:              uuid.New().String(),
		FunctionName:    name,
		Location:        location,
		Date:            date.UTC(),
		Description:     strings.TrimSpace(req.Description),
		EmojiVibe:       vibe,
		MaxCapacity:     capacity,
		PublicOrPrivate: visibility,
		ClubAffiliated:  req.ClubAffiliated,
		ClubName:        strings.TrimSpace(req.ClubName),
		OrganizerUserID: strings.TrimSpace(req.OrganizerUserID),
		OrganizerAlias:  alias,
		CreatedAt:       s.now(),
		Status:          models.StatusUpcoming,
		Attendees:       []models.Attendee{},
		InvitedUsers:    []string{},
		InvitationImage: req.InvitationImage,
	}, nil
}

// CurrentFunctionFor is the organiser's summary of ev.
func CurrentFunctionFor(ev *models.Event) models.CurrentFunction {
	return models.CurrentFunction{
		FunctionName:    ev.FunctionName,
		EventID:         ev.ID,
		EmojiVibe:       ev.EmojiVibe,
		Status:          ev.Status,
		Date:            ev.Date,
		PublicOrPrivate: ev.PublicOrPrivate,
		NumberOfInvites: ev.InviteCount,
		InvitationImage: ev.InvitationImage,
	}
}

func (s *DefaultEventService) CreateEvent(ctx context.Context, req models.EventCreateRequest) (*models.Event, error) {
	logger := utils.GetLogger()
	ev, err := s.normalizeCreate(req)
	if err != nil {
		return nil, err
	}
	if err := s.Events.Create(ev); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	logger.Info("Event created",
		zap.String("eventID", ev.ID),
		zap.String("organizerID", ev.OrganizerUserID),
		zap.String("visibility", ev.PublicOrPrivate))

	if ev.OrganizerUserID != "" {
		if err := s.Users.AddCurrentFunction(ev.OrganizerUserID, CurrentFunctionFor(ev)); err != nil {
			logger.Warn("organizer bookkeeping failed",
				zap.String("eventID", ev.ID), zap.String("organizerID", ev.OrganizerUserID), zap.Error(err))
		}
	}
	return ev, nil
}

func (s *DefaultEventService) GetEvent(eventID string) (*models.Event, error) {
	ev, err := s.Events.GetByID(eventID)
	if err != nil {
		return nil, eventErr(err)
	}
	return ev, nil
}

func (s *DefaultEventService) ListPublicUpcoming() ([]models.Event, error) {
	return s.Events.ListPublicUpcoming()
}

// ListUpcomingWithin returns public upcoming events dated in [now, now+window].
func (s *DefaultEventService) ListUpcomingWithin(window time.Duration) ([]models.Event, error) {
	now := s.now()
	return s.Events.ListPublicUpcomingBetween(now, now.Add(window))
}

func (s *DefaultEventService) ListUserEvents(userID, status string) ([]models.Event, error) {
	return s.Events.ListByOrganizer(userID, strings.ToLower(strings.TrimSpace(status)))
}
