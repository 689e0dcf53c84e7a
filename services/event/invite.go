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

	"go.uber.org/zap"
)

// resolveInvitee looks an identifier up by email when it contains "@", by id otherwise.
func (s *DefaultEventService) resolveInvitee(identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.Users.GetByEmail(strings.ToLower(identifier))
	}
	return s.Users.GetByID(identifier)
}

// InviteUsers adds users to a private event's invite list and notifies each of them.
// Unknown users, the organiser and users already invited are skipped.
func (s *DefaultEventService) InviteUsers(ctx context.Context, eventID string, req models.InviteUsersRequest) (*InviteResult, error) {
	logger := utils.GetLogger()
	if len(req.InvitedUserIDs) == 0 {
		return nil, services.Invalid("invited_user_ids must not be empty")
	}
	ev, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsPrivate() {
		return nil, services.ErrNotPrivate
	}

	// Capacity counts every requested identifier, resolvable or not.
	existing := len(ev.InvitedUsers)
	if existing+len(req.InvitedUserIDs) > ev.MaxCapacity {
		return nil, &services.CapacityError{Remaining: remaining(ev.MaxCapacity, existing)}
	}

	result := &InviteResult{}
	seen := map[string]bool{}
	var invitees []*models.User
	for _, raw := range req.InvitedUserIDs {
		identifier := strings.TrimSpace(raw)
		if identifier == "" {
			continue
		}
		u, err := s.resolveInvitee(identifier)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				logger.Warn("invitee lookup failed", zap.String("identifier", identifier), zap.Error(err))
			}
			result.Skipped = append(result.Skipped, identifier)
			continue
		}
		if u.ID == ev.OrganizerUserID || ev.IsInvited(u.ID) || seen[u.ID] {
			result.Skipped = append(result.Skipped, identifier)
			continue
		}
		seen[u.ID] = true
		invitees = append(invitees, u)
	}

	if len(invitees) == 0 {
		result.TotalInvited = existing
		return result, nil
	}

	ids := make([]string, 0, len(invitees))
	for _, u := range invitees {
		ids = append(ids, u.ID)
	}
	updated, err := s.Events.AddInvitees(eventID, ids)
	if errors.Is(err, database.ErrNoMatch) {
		current, getErr := s.GetEvent(eventID)
		if getErr != nil {
			return nil, getErr
		}
		for _, id := range ids {
			if current.IsInvited(id) {
				return nil, fmt.Errorf("user %s: %w", id, services.ErrAlreadyInvited)
			}
		}
		return nil, &services.CapacityError{Remaining: remaining(current.MaxCapacity, len(current.InvitedUsers))}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add invitees: %w", err)
	}

	message := fmt.Sprintf("%s invited you to %s", ev.OrganizerAlias, ev.FunctionName)
	personal := strings.TrimSpace(req.PersonalMessage)
	if personal != "" {
		message = fmt.Sprintf("%s: \"%s\"", message, personal)
	}
	notes := make([]models.Notification, 0, len(invitees))
	for _, u := range invitees {
		n := models.Notification{
			UserID:     u.ID,
			Type:       models.NotificationPrivateInvite,
			Title:      "You're invited!",
			Message:    message,
			EventID:    ev.ID,
			EventName:  ev.FunctionName,
			SenderID:   ev.OrganizerUserID,
			SenderName: ev.OrganizerAlias,
			Metadata: map[string]string{
				"location": ev.Location,
				"date":     ev.Date.Format(time.RFC3339),
			},
		}
		if personal != "" {
			n.Metadata["personal_message"] = personal
		}
		notes = append(notes, n)
	}
	result.NotificationsCreated = s.Notifier.NotifyMany(ctx, notes)
	result.TotalInvited = len(updated.InvitedUsers)

	logger.Info("Users invited",
		zap.String("eventID", eventID),
		zap.Int("invited", len(ids)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func remaining(capacity, used int) int {
	if used >= capacity {
		return 0
	}
	return capacity - used
}
