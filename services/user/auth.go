package user

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
	"golang.org/x/crypto/bcrypt"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateInstitutionEmail requires the address to end in @domain.
func ValidateInstitutionEmail(email, domain string) error {
	if domain == "" {
		domain = "bc.edu"
	}
	email = NormalizeEmail(email)
	suffix := "@" + strings.ToLower(domain)
	if !strings.HasSuffix(email, suffix) || len(email) == len(suffix) {
		return services.Invalid("Please use your %s email address", domain)
	}
	return nil
}

func validateRegistration(req models.RegisterRequest, domain string) error {
	if strings.TrimSpace(req.Name) == "" {
		return services.Invalid("Name is required")
	}
	if err := ValidateInstitutionEmail(req.BCEmail, domain); err != nil {
		return err
	}
	if len(req.Password) < minPasswordLength {
		return services.Invalid("Password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Register validates and creates a user, then issues a session token.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	logger := utils.GetLogger()
	if err := validateRegistration(req, s.EmailDomain); err != nil {
		return nil, err
	}
	email := NormalizeEmail(req.BCEmail)

	existing, err := s.Repo.GetByEmail(email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		logger.Error("Register: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if existing != nil {
		return nil, services.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                 uuid.New().String(),
		BCEmail:            email,
		Name:               strings.TrimSpace(req.Name),
		PasswordHash:       string(hashedPassword),
		PersonalRating:     models.DefaultPersonalRating,
		InstagramHandle:    strings.TrimSpace(req.InstagramHandle),
		InstagramFollowers: []string{},
		BCClubAffiliations: []string{},
		CurrentFunctions:   []models.CurrentFunction{},
		PastFunctions:      []models.PastFunction{},
	}
	if err := s.Repo.Create(user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, services.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.Info("User registered", zap.String("userID", user.ID))

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		UserID:    user.ID,
		BCEmail:   user.BCEmail,
		Name:      user.Name,
		CreatedAt: &user.CreatedAt,
		Token:     token,
		Message:   "User registered successfully",
	}, nil
}

// Login checks credentials and issues a session token.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Repo.GetByEmail(NormalizeEmail(req.BCEmail))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, services.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		UserID:           user.ID,
		BCEmail:          user.BCEmail,
		Name:             user.Name,
		AIGeneratedAlias: user.AIGeneratedAlias,
		Token:            token,
		Message:          "Login successful",
	}, nil
}

func (s *DefaultUserService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}

// issueToken signs a JWT and records its hash in the store and the session cache.
func (s *DefaultUserService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, user.BCEmail, s.tokenTTL())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	hash := utils.HashToken(token)
	if err := s.Repo.AddTokenHash(user.ID, hash); err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	session := utils.AuthSession{
		UserID:    user.ID,
		Email:     user.BCEmail,
		TokenHash: hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := utils.SaveAuthSession(ctx, s.Sessions, session, s.tokenTTL()); err != nil {
		utils.GetLogger().Warn("session cache write failed", zap.String("userID", user.ID), zap.Error(err))
	}
	return token, nil
}

// Logout revokes the given token.
func (s *DefaultUserService) Logout(ctx context.Context, userID, token string) error {
	hash := utils.HashToken(token)
	if err := s.Repo.RemoveTokenHash(userID, hash); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return services.ErrUserNotFound
		}
		return err
	}
	if s.Sessions != nil {
		if err := utils.DeleteAuthSession(ctx, s.Sessions, hash); err != nil {
			utils.GetLogger().Warn("session cache delete failed", zap.Error(err))
		}
	}
	return nil
}
