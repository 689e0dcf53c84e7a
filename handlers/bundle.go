package handlers

import (
	userRepoPkg "bcplughub/database/repository/user"

	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups every endpoint handler for route registration.
type HandlerBundle struct {
	UserRepo  userRepoPkg.UserRepository
	AuthCache *redis.Client
	// AuthRequired makes user-scoped routes reject anonymous requests.
	AuthRequired bool

	Users         *UserHandler
	Events        *EventHandler
	Notifications *NotificationHandler
	AI            *AIHandler
	Map           *MapHandler
	Invites       *InviteHandler
}
