package event

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/utils"

	"go.uber.org/zap"
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BlendRating folds an event average into an organiser rating that already
// reflects finalized previous functions.
func BlendRating(current float64, finalized int, average float64) float64 {
	blended := round1((current*float64(finalized) + average) / float64(finalized+1))
	return math.Max(models.MinPersonalRating, blended)
}

func finalizedCount(u *models.User) int {
	n := 0
	for _, p := range u.PastFunctions {
		if p.FinalRating != nil {
			n++
		}
	}
	return n
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RateEvent records one rating on an archived event. Ratings are accepted
// from attendees and invitees within RatingWindow of the start. Once everyone
// eligible has rated the event is finalized.
func (s *DefaultEventService) RateEvent(ctx context.Context, eventID string, req models.RateEventRequest) (*RateResult, error) {
	logger := utils.GetLogger()
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, services.Invalid("user_id is required")
	}
	if req.Rating < minRating || req.Rating > maxRating {
		return nil, services.ErrInvalidRating
	}

	hist, err := s.Historical.GetByOriginalID(eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, services.ErrHistoricalNotFound
		}
		return nil, err
	}
	now := s.now()
	if hist.RatingFinalized || now.After(hist.Date.Add(RatingWindow)) {
		return nil, services.ErrRatingWindowClosed
	}
	eligible := raters(&hist.Event)
	if !contains(eligible, userID) {
		return nil, services.ErrNotEligibleToRate
	}
	if hist.HasRated(userID) {
		return nil, services.ErrAlreadyRated
	}

	rating := models.EventRating{
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
		Attended: req.Attended,
		RatedAt:  now,
	}
	updated, err := s.Historical.AddRating(eventID, rating)
	if errors.Is(err, database.ErrNoMatch) {
		return nil, services.ErrAlreadyRated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record rating: %w", err)
	}
	logger.Info("Rating recorded",
		zap.String("eventID", eventID),
		zap.String("userID", userID),
		zap.Int("totalRatings", updated.TotalRatings))

	result := &RateResult{
		AverageRating: round1(updated.AverageRating),
		TotalRatings:  updated.TotalRatings,
	}
	if updated.TotalRatings >= len(eligible) {
		finalized, err := s.finalize(updated)
		if err != nil {
			logger.Error("rating finalization failed", zap.String("eventID", eventID), zap.Error(err))
		}
		result.RatingFinalized = finalized
	}
	return result, nil
}

// FinalizeRating finalizes one archived event. It returns false when the
// event was already finalized.
func (s *DefaultEventService) FinalizeRating(ctx context.Context, eventID string) (bool, error) {
	hist, err := s.Historical.GetByOriginalID(eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, services.ErrHistoricalNotFound
		}
		return false, err
	}
	return s.finalize(hist)
}

// finalize claims the event first so the organiser rating is blended once.
func (s *DefaultEventService) finalize(hist *models.HistoricalEvent) (bool, error) {
	logger := utils.GetLogger()
	claimed, err := s.Historical.MarkFinalized(hist.OriginalEventID, s.now())
	if err != nil || !claimed {
		return false, err
	}

	average := round1(hist.AverageRating)
	if hist.OrganizerUserID == "" {
		return true, nil
	}
	organizer, err := s.Users.GetByID(hist.OrganizerUserID)
	if err != nil {
		return true, fmt.Errorf("organizer %s: %w", hist.OrganizerUserID, err)
	}

	newRating := BlendRating(organizer.PersonalRating, finalizedCount(organizer), hist.AverageRating)
	if err := s.Users.SetPersonalRating(organizer.ID, newRating); err != nil {
		return true, fmt.Errorf("failed to update organizer rating: %w", err)
	}
	if err := s.Users.FinalizePastFunction(organizer.ID, hist.OriginalEventID, average); err != nil {
		logger.Warn("past function not finalized", zap.String("eventID", hist.OriginalEventID), zap.Error(err))
	}
	logger.Info("Rating finalized",
		zap.String("eventID", hist.OriginalEventID),
		zap.Float64("average", average),
		zap.Float64("organizerRating", newRating))
	return true, nil
}

// FinalizeDueRatings finalizes every event whose rating window closed with at least one rating.
func (s *DefaultEventService) FinalizeDueRatings(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	due, err := s.Historical.ListFinalizable(s.now().Add(-RatingWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to list finalizable events: %w", err)
	}
	count := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		ok, err := s.finalize(&due[i])
		if err != nil {
			logger.Error("rating finalization failed", zap.String("eventID", due[i].OriginalEventID), zap.Error(err))
		}
		if ok {
			count++
		}
	}
	return count, nil
}
