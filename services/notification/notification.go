package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/services/tasks"
	"bcplughub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultNotificationService) Notify(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.UserID == "" {
		return nil, fmt.Errorf("notification has no recipient")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.ActionRequired = n.Type == models.NotificationPrivateInvite || n.Type == models.NotificationRateFunction

	if err := s.Repo.Create(&n); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}
	s.dispatchPush(ctx, n)
	return &n, nil
}

func (s *DefaultNotificationService) NotifyMany(ctx context.Context, ns []models.Notification) int {
	created := 0
	for _, n := range ns {
		if _, err := s.Notify(ctx, n); err != nil {
			utils.GetLogger().Warn("notification not created",
				zap.String("userID", n.UserID), zap.String("type", n.Type), zap.Error(err))
			continue
		}
		created++
	}
	return created
}

// dispatchPush queues delivery, or sends inline when no queue is configured.
func (s *DefaultNotificationService) dispatchPush(ctx context.Context, n models.Notification) {
	logger := utils.GetLogger()
	payload := models.PushPayload{
		UserID:         n.UserID,
		NotificationID: n.ID,
		Type:           n.Type,
		Title:          n.Title,
		Body:           n.Message,
		Data:           pushData(n),
	}

	if s.Queue != nil {
		task, opts, err := tasks.NewPushTask(payload)
		if err == nil {
			_, err = s.Queue.Enqueue(task, opts...)
		}
		if err != nil {
			logger.Warn("failed to enqueue push", zap.String("notificationID", n.ID), zap.Error(err))
		}
		return
	}
	if s.Push == nil {
		return
	}
	if err := s.SendUserPushNotification(ctx, payload.UserID, payload.Title, payload.Body, payload.Data); err != nil {
		logger.Warn("push delivery failed", zap.String("notificationID", n.ID), zap.Error(err))
	}
}

func pushData(n models.Notification) map[string]string {
	data := map[string]string{
		"notification_id": n.ID,
		"type":            n.Type,
	}
	if n.EventID != "" {
		data["event_id"] = n.EventID
	}
	return data
}

func (s *DefaultNotificationService) ListForUser(userID string, unreadOnly bool) (*models.NotificationList, error) {
	items, err := s.Repo.ListByUser(userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	list := &models.NotificationList{
		UserID:        userID,
		Notifications: items,
		Count:         len(items),
	}
	for _, n := range items {
		if !n.Read {
			list.UnreadCount++
		}
		if n.ActionRequired {
			list.ActionRequiredCount++
		}
	}
	return list, nil
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return services.ErrNotificationNotFound
	}
	return err
}

func (s *DefaultNotificationService) Get(id string) (*models.Notification, error) {
	n, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s *DefaultNotificationService) MarkRead(id string) error {
	return notFound(s.Repo.MarkRead(id))
}

func (s *DefaultNotificationService) Delete(id string) error {
	return notFound(s.Repo.Delete(id))
}
