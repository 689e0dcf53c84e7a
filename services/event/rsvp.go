package event

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"go.uber.org/zap"
)

// RSVP adds the user to the attendee list. The store update only applies when
// the user is absent and capacity remains, so concurrent RSVPs cannot overfill.
func (s *DefaultEventService) RSVP(ctx context.Context, eventID string, req models.RSVPRequest) (*models.Event, error) {
	logger := utils.GetLogger()
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, services.Invalid("user_id is required")
	}

	ev, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if err := checkCanRSVP(ev, userID); err != nil {
		return nil, err
	}

	alias := strings.TrimSpace(req.UserAlias)
	if alias == "" {
		alias = models.DefaultOrganizerAlias
	}
	attendee := models.Attendee{UserID: userID, UserAlias: alias, RSVPTime: s.now()}

	updated, err := s.Events.AddAttendee(eventID, attendee)
	if errors.Is(err, database.ErrNoMatch) {
		// Lost a race; re-read to report why.
		current, getErr := s.GetEvent(eventID)
		if getErr != nil {
			return nil, getErr
		}
		if err := checkCanRSVP(current, userID); err != nil {
			return nil, err
		}
		return nil, services.ErrEventFull
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rsvp: %w", err)
	}
	logger.Info("RSVP recorded",
		zap.String("eventID", eventID),
		zap.String("userID", userID),
		zap.Int("attendeeCount", updated.RSVPCount))

	if updated.OrganizerUserID != "" && updated.OrganizerUserID != userID {
		_, err := s.Notifier.Notify(ctx, models.Notification{
			UserID:     updated.OrganizerUserID,
			Type:       models.NotificationRSVPReceived,
			Title:      "New RSVP",
			Message:    fmt.Sprintf("%s is coming to %s", alias, updated.FunctionName),
			EventID:    updated.ID,
			EventName:  updated.FunctionName,
			SenderID:   userID,
			SenderName: alias,
		})
		if err != nil {
			logger.Warn("organizer rsvp notification failed", zap.String("eventID", eventID), zap.Error(err))
		}
	}
	return updated, nil
}

func checkCanRSVP(ev *models.Event, userID string) error {
	if ev.HasAttendee(userID) {
		return services.ErrAlreadyRSVPd
	}
	if ev.IsPrivate() && ev.OrganizerUserID != userID && !ev.IsInvited(userID) {
		return services.ErrNotInvited
	}
	if ev.RSVPCount >= ev.MaxCapacity {
		return services.ErrEventFull
	}
	return nil
}

func (s *DefaultEventService) CancelRSVP(eventID, userID string) (*models.Event, error) {
	updated, err := s.Events.RemoveAttendee(eventID, userID)
	if errors.Is(err, database.ErrNoMatch) {
		// Not attending: nothing to undo, report the current count.
		return s.GetEvent(eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel rsvp: %w", err)
	}
	utils.GetLogger().Info("RSVP cancelled", zap.String("eventID", eventID), zap.String("userID", userID))
	return updated, nil
}

func (s *DefaultEventService) Attendees(eventID string) ([]models.Attendee, error) {
	ev, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	return ev.Attendees, nil
}

// AcceptInvite RSVPs the recipient of an invite notification and clears it.
func (s *DefaultEventService) AcceptInvite(ctx context.Context, notificationID string, req models.RSVPRequest) (*models.Event, error) {
	logger := utils.GetLogger()
	n, err := s.Notifier.Get(notificationID)
	if err != nil {
		return nil, err
	}
	if n.Type != models.NotificationPrivateInvite || n.EventID == "" {
		return nil, services.ErrNotAnInvite
	}
	if req.UserID == "" {
		req.UserID = n.UserID
	}
	if req.UserID != n.UserID {
		return nil, services.ErrForbidden
	}

	if err := s.Notifier.MarkRead(notificationID); err != nil {
		logger.Warn("failed to mark invite read", zap.String("notificationID", notificationID), zap.Error(err))
	}

	ev, err := s.RSVP(ctx, n.EventID, req)
	if errors.Is(err, services.ErrAlreadyRSVPd) {
		ev, err = s.GetEvent(n.EventID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Notifier.Delete(notificationID); err != nil {
		logger.Warn("failed to delete accepted invite", zap.String("notificationID", notificationID), zap.Error(err))
	}
	return ev, nil
}

// DeclineInvite discards an invite notification.
func (s *DefaultEventService) DeclineInvite(notificationID string) error {
	n, err := s.Notifier.Get(notificationID)
	if err != nil {
		return err
	}
	if n.Type != models.NotificationPrivateInvite {
		return services.ErrNotAnInvite
	}
	utils.GetLogger().Info("Invite declined", zap.String("notificationID", notificationID), zap.String("userID", n.UserID))
	return s.Notifier.Delete(notificationID)
}
