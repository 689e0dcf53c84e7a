package repository

import (
	eventRepo "bcplughub/database/repository/event"
	notificationRepo "bcplughub/database/repository/notification"
	userRepo "bcplughub/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces and constructors.
type UserRepository = userRepo.UserRepository

type EventRepository = eventRepo.EventRepository

type HistoricalRepository = eventRepo.HistoricalRepository

type NotificationRepository = notificationRepo.NotificationRepository

var (
	NewMongoUserRepo         = userRepo.NewMongoUserRepo
	NewMongoEventRepo        = eventRepo.NewMongoEventRepo
	NewMongoHistoricalRepo   = eventRepo.NewMongoHistoricalRepo
	NewMongoNotificationRepo = notificationRepo.NewMongoNotificationRepo
)

// Repositories bundles every collection the API touches.
type Repositories struct {
	Users         UserRepository
	Events        EventRepository
	Historical    HistoricalRepository
	Notifications NotificationRepository
}

// NewMongoRepositories builds all repositories on one database.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         NewMongoUserRepo(db),
		Events:        NewMongoEventRepo(db),
		Historical:    NewMongoHistoricalRepo(db),
		Notifications: NewMongoNotificationRepo(db),
	}
}
