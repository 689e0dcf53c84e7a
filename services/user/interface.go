package user

import (
	"context"
	"time"

	userRepo "bcplughub/database/repository/user"
	"bcplughub/models"

	"github.com/go-redis/redis/v8"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID, token string) error

	// Profile
	GenerateAlias(ctx context.Context, userID, description string) (string, error)
	GetUser(userID string) (*models.User, error)
	ListUsers() ([]models.UserSummary, error)
	UpdateInstagram(userID string, req models.InstagramUpdateRequest) (*models.User, error)
	UpdateClubs(userID string, clubs []string) (*models.User, error)
	UpdateFCMToken(userID, token string) error

	// Functions
	AddPastFunction(userID string, fn models.PastFunction) error
	AddCurrentFunction(userID string, fn models.CurrentFunction) error
	GetFunctions(userID string) (*models.UserFunctions, error)
	GetPastFunctions(userID string) ([]models.PastFunction, error)
}

// AliasGenerator is satisfied by the AI service.
type AliasGenerator interface {
	GenerateAlias(ctx context.Context, name, description string) string
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Aliases AliasGenerator
	// Sessions caches issued tokens; optional.
	Sessions    *redis.Client
	EmailDomain string
	TokenTTL    time.Duration
}

const (
	minPasswordLength = 6
	defaultTokenTTL   = 7 * 24 * time.Hour
)
