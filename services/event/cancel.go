package event

import (
	"context"
	"fmt"
	"math"
	"strings"

	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"go.uber.org/zap"
)

// CancelEvent deletes an event on the organiser's behalf and notifies everyone
// involved. Cancelling on the event's calendar day costs the organiser
// CancellationPenalty rating points.
func (s *DefaultEventService) CancelEvent(ctx context.Context, eventID string, req models.CancelEventRequest) (*CancelResult, error) {
	logger := utils.GetLogger()
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, services.Invalid("user_id is required")
	}

	ev, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerUserID != userID {
		return nil, services.ErrNotOrganizer
	}

	sameDay := utils.SameDay(s.now(), ev.Date, s.location())
	if sameDay != req.CancelledSameDay {
		logger.Debug("client same-day flag ignored",
			zap.String("eventID", eventID),
			zap.Bool("client", req.CancelledSameDay),
			zap.Bool("server", sameDay))
	}

	if err := s.Events.Delete(eventID); err != nil {
		return nil, eventErr(err)
	}
	if err := s.Users.RemoveCurrentFunction(userID, eventID); err != nil {
		logger.Warn("failed to remove current function", zap.String("eventID", eventID), zap.Error(err))
	}

	result := &CancelResult{}
	organizer, err := s.Users.GetByID(userID)
	if err != nil {
		logger.Warn("organizer not found on cancel", zap.String("userID", userID), zap.Error(err))
	} else {
		result.NewRating = organizer.PersonalRating
		if sameDay {
			newRating := math.Max(models.MinPersonalRating, organizer.PersonalRating-CancellationPenalty)
			if err := s.Users.SetPersonalRating(userID, newRating); err != nil {
				logger.Warn("failed to apply cancellation penalty", zap.String("userID", userID), zap.Error(err))
			} else {
				result.RatingPenaltyApplied = true
				result.NewRating = newRating
			}
		}
	}

	var notes []models.Notification
	for _, id := range ev.Participants() {
		if id == userID {
			continue
		}
		notes = append(notes, models.Notification{
			UserID:     id,
			Type:       models.NotificationFunctionCancelled,
			Title:      "Function cancelled",
			Message:    fmt.Sprintf("%s has been cancelled by the host", ev.FunctionName),
			EventID:    ev.ID,
			EventName:  ev.FunctionName,
			SenderID:   userID,
			SenderName: ev.OrganizerAlias,
		})
	}
	result.NotificationsSent = s.Notifier.NotifyMany(ctx, notes)

	logger.Info("Event cancelled",
		zap.String("eventID", eventID),
		zap.Bool("penalty", result.RatingPenaltyApplied),
		zap.Int("notified", result.NotificationsSent))
	return result, nil
}
