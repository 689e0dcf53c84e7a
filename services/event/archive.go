package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"go.uber.org/zap"
)

// raters are the users allowed to rate ev: attendees and invitees other than the organiser.
func raters(ev *models.Event) []string {
	var out []string
	for _, id := range ev.Participants() {
		if id != ev.OrganizerUserID {
			out = append(out, id)
		}
	}
	return out
}

func historicalFrom(ev *models.Event, now time.Time) *models.HistoricalEvent {
	snapshot := *ev
	snapshot.Status = models.StatusCompleted
	if snapshot.Attendees == nil {
		snapshot.Attendees = []models.Attendee{}
	}
	if snapshot.InvitedUsers == nil {
		snapshot.InvitedUsers = []string{}
	}
	return &models.HistoricalEvent{
		Event:               snapshot,
		OriginalEventID:     ev.ID,
		MovedToHistoricalAt: now,
		Ratings:             []models.EventRating{},
	}
}

// pastFunctionFrom turns an organiser's current function into its completed record.
func pastFunctionFrom(fn models.CurrentFunction, ev *models.Event, rating float64, now time.Time) models.PastFunction {
	fn.Status = models.StatusCompleted
	past := models.PastFunction{
		CurrentFunction:          fn,
		PeopleInvited:            []string{},
		Comments:                 []string{},
		BeforeFunctionUserRating: rating,
		AfterFunctionUserRating:  rating,
		CompletedAt:              &now,
		OriginalEventID:          fn.EventID,
	}
	if ev != nil {
		past.PeopleInvited = append(past.PeopleInvited, ev.InvitedUsers...)
		past.Location = ev.Location
		past.ClubAffiliated = ev.ClubAffiliated
		past.FinalAttendeeCount = ev.RSVPCount
	}
	return past
}

func hasPastFunction(u *models.User, eventID string) bool {
	for _, p := range u.PastFunctions {
		if p.EventID == eventID {
			return true
		}
	}
	return false
}

func findCurrentFunction(u *models.User, eventID string) (models.CurrentFunction, bool) {
	for _, fn := range u.CurrentFunctions {
		if fn.EventID == eventID {
			return fn, true
		}
	}
	return models.CurrentFunction{}, false
}

// completeForOrganizer moves the event from the organiser's current to past
// functions. It reports whether the user document changed.
func (s *DefaultEventService) completeForOrganizer(ev *models.Event, now time.Time) (bool, error) {
	if ev.OrganizerUserID == "" {
		return false, nil
	}
	organizer, err := s.Users.GetByID(ev.OrganizerUserID)
	if err != nil {
		return false, err
	}
	if hasPastFunction(organizer, ev.ID) {
		return false, nil
	}
	fn, ok := findCurrentFunction(organizer, ev.ID)
	if !ok {
		fn = CurrentFunctionFor(ev)
	}
	past := pastFunctionFrom(fn, ev, organizer.PersonalRating, now)
	if err := s.Users.CompleteFunction(organizer.ID, ev.ID, past); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DefaultEventService) sendRatingRequests(ctx context.Context, ev *models.Event, now time.Time) int {
	expires := ev.Date.Add(RatingWindow)
	if !expires.After(now) {
		return 0
	}
	var notes []models.Notification
	for _, id := range raters(ev) {
		exp := expires
		notes = append(notes, models.Notification{
			UserID:     id,
			Type:       models.NotificationRateFunction,
			Title:      "How was it?",
			Message:    fmt.Sprintf("Rate %s hosted by %s", ev.FunctionName, ev.OrganizerAlias),
			EventID:    ev.ID,
			EventName:  ev.FunctionName,
			SenderID:   ev.OrganizerUserID,
			SenderName: ev.OrganizerAlias,
			ExpiresAt:  &exp,
		})
	}
	return s.Notifier.NotifyMany(ctx, notes)
}

// archiveEvent snapshots ev into history, completes the organiser's function,
// asks participants for ratings and removes the live event. Each step tolerates
// a repeat run.
func (s *DefaultEventService) archiveEvent(ctx context.Context, ev *models.Event) (bool, error) {
	logger := utils.GetLogger()
	now := s.now()

	if err := s.Historical.Archive(historicalFrom(ev, now)); err != nil {
		return false, err
	}
	updated, err := s.completeForOrganizer(ev, now)
	if err != nil {
		logger.Warn("organizer function not completed", zap.String("eventID", ev.ID), zap.Error(err))
	}
	sent := s.sendRatingRequests(ctx, ev, now)

	if err := s.Events.Delete(ev.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
		return updated, err
	}
	logger.Info("Event archived", zap.String("eventID", ev.ID), zap.Int("ratingRequests", sent))
	return updated, nil
}

// ArchivePastEvents moves every event whose start has passed into history.
func (s *DefaultEventService) ArchivePastEvents(ctx context.Context) (*ArchiveResult, error) {
	logger := utils.GetLogger()
	events, err := s.Events.ListStartedBefore(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list past events: %w", err)
	}

	result := &ArchiveResult{}
	for i := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		updated, err := s.archiveEvent(ctx, &events[i])
		if err != nil {
			logger.Error("failed to archive event", zap.String("eventID", events[i].ID), zap.Error(err))
			continue
		}
		result.EventsMoved++
		if updated {
			result.UsersUpdated++
		}
	}
	if result.EventsMoved > 0 {
		logger.Info("Past events archived", zap.Int("eventsMoved", result.EventsMoved), zap.Int("usersUpdated", result.UsersUpdated))
	}
	return result, nil
}

// ArchiveUserPastEvents archives the started functions of one organiser.
// Functions whose event is gone are completed with no attendees.
func (s *DefaultEventService) ArchiveUserPastEvents(ctx context.Context, userID string) (int, error) {
	logger := utils.GetLogger()
	user, err := s.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, services.ErrUserNotFound
		}
		return 0, err
	}

	now := s.now()
	moved := 0
	for _, fn := range user.CurrentFunctions {
		if fn.Date.IsZero() || !fn.Date.Before(now) {
			continue
		}
		ev, err := s.Events.GetByID(fn.EventID)
		switch {
		case err == nil:
			if _, err := s.archiveEvent(ctx, ev); err != nil {
				logger.Error("failed to archive event", zap.String("eventID", fn.EventID), zap.Error(err))
				continue
			}
		case errors.Is(err, database.ErrNotFound):
			if hasPastFunction(user, fn.EventID) {
				continue
			}
			past := pastFunctionFrom(fn, nil, user.PersonalRating, now)
			if err := s.Users.CompleteFunction(userID, fn.EventID, past); err != nil {
				logger.Error("failed to complete orphaned function", zap.String("eventID", fn.EventID), zap.Error(err))
				continue
			}
		default:
			logger.Error("failed to load event", zap.String("eventID", fn.EventID), zap.Error(err))
			continue
		}
		moved++
	}
	return moved, nil
}

func (s *DefaultEventService) ListHistorical(limit, offset int64) ([]models.HistoricalEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Historical.List(limit, offset)
}
