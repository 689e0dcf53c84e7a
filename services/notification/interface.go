package notification

import (
	"context"

	notificationRepo "bcplughub/database/repository/notification"
	userRepo "bcplughub/database/repository/user"
	"bcplughub/models"
	"bcplughub/services/tasks"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService stores in-app notifications and delivers them as pushes.
type NotificationService interface {
	// Notify stores n and queues a push; push failures are logged only.
	Notify(ctx context.Context, n models.Notification) (*models.Notification, error)
	// NotifyMany stores each notification and returns how many were created.
	NotifyMany(ctx context.Context, ns []models.Notification) int

	ListForUser(userID string, unreadOnly bool) (*models.NotificationList, error)
	Get(id string) (*models.Notification, error)
	MarkRead(id string) error
	Delete(id string) error

	// SendUserPushNotification looks up a user's FCM token and sends a push.
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
}

// PushSender is satisfied by *messaging.Client.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Users userRepo.UserRepository
	// Queue is optional; without it pushes are sent inline.
	Queue tasks.Enqueuer
	// Push is optional; without it pushes are skipped.
	Push PushSender
}
