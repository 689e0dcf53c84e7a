package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"bcplughub/models"
	"bcplughub/utils"

	"go.uber.org/zap"
)

// DefaultRecommendation is returned when the model is unavailable.
const DefaultRecommendation = "Check out the events happening around campus in the next 24 hours!"

const (
	recommendationEvents = 5
	goatedHorizon        = 10 * 24 * time.Hour
	defaultGoatedCap     = 50
)

// EventInsights scores every event and adds a short recommendation.
func (s *DefaultAIService) EventInsights(ctx context.Context, events []models.InsightEvent) (*models.EventInsightsResponse, error) {
	predictions := make([]models.SuccessPrediction, 0, len(events))
	for _, e := range events {
		predictions = append(predictions, s.Predictor.Predict(e))
	}
	SortPredictions(predictions)

	return &models.EventInsightsResponse{
		SuccessPredictions: predictions,
		Recommendation:     s.recommendation(ctx, events),
	}, nil
}

func (s *DefaultAIService) recommendation(ctx context.Context, events []models.InsightEvent) string {
	if len(events) == 0 || s.LLM == nil {
		return DefaultRecommendation
	}
	logger := utils.GetLogger()

	key := insightKey(events)
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, key); err != nil {
			logger.Warn("insight cache read failed", zap.Error(err))
		} else if ok {
			return cached
		}
	}

	text, err := s.LLM.GenerateContent(ctx, recommendationPrompt(events))
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Warn("recommendation generation failed", zap.Error(err))
		return DefaultRecommendation
	}
	text = strings.TrimSpace(text)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, text); err != nil {
			logger.Warn("insight cache write failed", zap.Error(err))
		}
	}
	return text
}

// recommendationPrompt describes the first few events in request order.
func recommendationPrompt(events []models.InsightEvent) string {
	if len(events) > recommendationEvents {
		events = events[:recommendationEvents]
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("- %s at %s on %s (%d/%d RSVPs)",
			e.FunctionName, e.Location, e.Date, e.RSVPCount, e.MaxCapacity))
	}

	return fmt.Sprintf(`You are a helpful assistant that analyzes campus events and gives brief, friendly insights to college students.
Analyze these upcoming BC campus events and give a brief, friendly insight about the overall event landscape. Be encouraging and highlight interesting patterns or standout events.

Events:
%s

Respond in 1-2 sentences with actionable insights for students.`, strings.Join(lines, "\n"))
}

// GoatedPrediction picks the highest scoring public event in the next ten days.
func (s *DefaultAIService) GoatedPrediction(ctx context.Context) (*models.GoatedResponse, error) {
	now := s.now()
	events, err := s.Events.ListPublicUpcomingBetween(now, now.Add(goatedHorizon))
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}
	if len(events) == 0 {
		return &models.GoatedResponse{Message: "No upcoming events in the next 10 days"}, nil
	}

	var best *models.Event
	var bestPrediction models.SuccessPrediction
	for i := range events {
		p := s.Predictor.PredictEvent(events[i])
		if best == nil || p.Score > bestPrediction.Score {
			best = &events[i]
			bestPrediction = p
		}
	}

	return &models.GoatedResponse{
		GoatedEvent: best,
		Prediction: &models.GoatedPrediction{
			GoatedScore:    bestPrediction.Score,
			PredictedRSVPs: PredictRSVPs(*best, bestPrediction.Score),
			Confidence:     Confidence(bestPrediction.Score),
			Reason:         bestPrediction.Reason,
			Factors:        bestPrediction.Factors,
		},
	}, nil
}

// PredictRSVPs projects final turnout as score percent of capacity, never below current RSVPs.
func PredictRSVPs(e models.Event, score int) int {
	capacity := e.MaxCapacity
	if capacity <= 0 {
		capacity = defaultGoatedCap
	}
	projected := int(math.Round(float64(capacity) * float64(score) / 100))
	if projected < e.RSVPCount {
		projected = e.RSVPCount
	}
	if projected > capacity {
		projected = capacity
	}
	return projected
}

func Confidence(score int) string {
	switch {
	case score >= 75:
		return "High"
	case score >= 55:
		return "Medium"
	default:
		return "Low"
	}
}
