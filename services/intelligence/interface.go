package ai

import (
	"context"
	"time"

	"bcplughub/models"
)

// AIService covers every model-backed feature of the API.
type AIService interface {
	GenerateAlias(ctx context.Context, name, description string) string
	EventInsights(ctx context.Context, events []models.InsightEvent) (*models.EventInsightsResponse, error)
	GoatedPrediction(ctx context.Context) (*models.GoatedResponse, error)
}

// UpcomingEventSource is satisfied by the event repository.
type UpcomingEventSource interface {
	ListPublicUpcomingBetween(from, to time.Time) ([]models.Event, error)
}

// DefaultAIService is the production implementation. LLM and Cache are optional.
type DefaultAIService struct {
	LLM       TextGenerator
	Cache     RecommendationCache
	Events    UpcomingEventSource
	Predictor Predictor
	Aliases   *AliasGenerator
	Now       func() time.Time
}

func NewDefaultAIService(llm TextGenerator, cache RecommendationCache, events UpcomingEventSource, loc *time.Location) *DefaultAIService {
	return &DefaultAIService{
		LLM:       llm,
		Cache:     cache,
		Events:    events,
		Predictor: Predictor{Location: loc},
		Aliases:   &AliasGenerator{LLM: llm},
		Now:       time.Now,
	}
}

func (s *DefaultAIService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAIService) GenerateAlias(ctx context.Context, name, description string) string {
	if s.Aliases == nil {
		s.Aliases = &AliasGenerator{LLM: s.LLM}
	}
	return s.Aliases.GenerateAlias(ctx, name, description)
}
