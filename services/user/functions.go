package user

import (
	"sort"

	"bcplughub/models"
	"bcplughub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AddPastFunction records a completed function. The user's personal rating
// follows the function's after-rating when one is given.
func (s *DefaultUserService) AddPastFunction(userID string, fn models.PastFunction) error {
	if fn.PeopleInvited == nil {
		fn.PeopleInvited = []string{}
	}
	if fn.Comments == nil {
		fn.Comments = []string{}
	}
	if err := s.Repo.AddPastFunction(userID, fn); err != nil {
		return userErr(err)
	}
	if fn.AfterFunctionUserRating > 0 {
		rating := fn.AfterFunctionUserRating
		if rating < models.MinPersonalRating {
			rating = models.MinPersonalRating
		}
		if err := s.Repo.SetPersonalRating(userID, rating); err != nil {
			return userErr(err)
		}
	}
	utils.GetLogger().Info("Past function added", zap.String("userID", userID), zap.String("eventID", fn.EventID))
	return nil
}

func (s *DefaultUserService) AddCurrentFunction(userID string, fn models.CurrentFunction) error {
	if fn.EmojiVibe == nil {
		fn.EmojiVibe = []string{}
	}
	if fn.Status == "" {
		fn.Status = models.StatusUpcoming
	}
	return userErr(s.Repo.AddCurrentFunction(userID, fn))
}

var functionsProjection = bson.M{
	"id":                1,
	"personal_rating":   1,
	"current_functions": 1,
	"past_functions":    1,
}

// GetFunctions returns current functions soonest first and past functions most recent first.
func (s *DefaultUserService) GetFunctions(userID string) (*models.UserFunctions, error) {
	u, err := s.Repo.GetByIDWithProjection(userID, functionsProjection)
	if err != nil {
		return nil, userErr(err)
	}
	current := append([]models.CurrentFunction{}, u.CurrentFunctions...)
	sort.SliceStable(current, func(i, j int) bool { return current[i].Date.Before(current[j].Date) })
	past := sortPast(u.PastFunctions)

	return &models.UserFunctions{
		UserID:                u.ID,
		CurrentFunctions:      current,
		PastFunctions:         past,
		CurrentFunctionsCount: len(current),
		PastFunctionsCount:    len(past),
		PersonalRating:        u.PersonalRating,
	}, nil
}

func (s *DefaultUserService) GetPastFunctions(userID string) ([]models.PastFunction, error) {
	u, err := s.Repo.GetByIDWithProjection(userID, bson.M{"id": 1, "past_functions": 1})
	if err != nil {
		return nil, userErr(err)
	}
	return sortPast(u.PastFunctions), nil
}

func sortPast(in []models.PastFunction) []models.PastFunction {
	past := append([]models.PastFunction{}, in...)
	sort.SliceStable(past, func(i, j int) bool { return past[i].Date.After(past[j].Date) })
	return past
}
