package user

import (
	"context"
	"errors"
	"strings"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func userErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return services.ErrUserNotFound
	}
	return err
}

func (s *DefaultUserService) GetUser(userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, userErr(err)
	}
	return u, nil
}

func (s *DefaultUserService) ListUsers() ([]models.UserSummary, error) {
	return s.Repo.ListSummaries()
}

// GenerateAlias stores a fresh alias for the user.
func (s *DefaultUserService) GenerateAlias(ctx context.Context, userID, description string) (string, error) {
	u, err := s.GetUser(userID)
	if err != nil {
		return "", err
	}
	alias := s.Aliases.GenerateAlias(ctx, u.Name, strings.TrimSpace(description))
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"ai_generated_alias": alias}); err != nil {
		return "", userErr(err)
	}
	utils.GetLogger().Info("Alias generated", zap.String("userID", userID), zap.String("alias", alias))
	return alias, nil
}

func (s *DefaultUserService) UpdateInstagram(userID string, req models.InstagramUpdateRequest) (*models.User, error) {
	followers := req.InstagramFollowers
	if followers == nil {
		followers = []string{}
	}
	update := bson.M{
		"instagram_handle":         strings.TrimSpace(req.InstagramHandle),
		"instagram_followers":      followers,
		"instagram_follower_count": len(followers),
	}
	if err := s.Repo.UpdateSetDocument(userID, update); err != nil {
		return nil, userErr(err)
	}
	return s.GetUser(userID)
}

func (s *DefaultUserService) UpdateClubs(userID string, clubs []string) (*models.User, error) {
	cleaned := []string{}
	seen := map[string]bool{}
	for _, c := range clubs {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		cleaned = append(cleaned, c)
	}
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"bc_club_affiliations": cleaned}); err != nil {
		return nil, userErr(err)
	}
	return s.GetUser(userID)
}

func (s *DefaultUserService) UpdateFCMToken(userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return services.Invalid("fcm_token is required")
	}
	return userErr(s.Repo.UpdateSetDocument(userID, bson.M{"fcm_token": token}))
}
