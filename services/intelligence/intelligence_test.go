package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bcplughub/models"
	"bcplughub/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

type mapCache map[string]string

func (c mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c[key]
	return v, ok, nil
}

func (c mapCache) Set(ctx context.Context, key, value string) error {
	c[key] = value
	return nil
}

func TestSanitizeAlias(t *testing.T) {
	cases := map[string]string{
		"Velvet Thunder":            "Velvet Thunder",
		"\"neon phoenix!\"\nextra":  "Neon Phoenix",
		"  Cosmic   Raven   Wolf  ": "Cosmic Raven",
	}
	for in, want := range cases {
		got, ok := SanitizeAlias(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := SanitizeAlias("Solo")
	assert.False(t, ok)
	_, ok = SanitizeAlias("")
	assert.False(t, ok)
}

func TestGenerateAlias_Fallback(t *testing.T) {
	llm := new(mockLLM)
	llm.On("GenerateContent", mock.Anything).Return("", errors.New("quota")).Once()
	g := &AliasGenerator{LLM: llm, Intn: func(int) int { return 0 }}

	assert.Equal(t, "Velvet Thunder", g.GenerateAlias(context.Background(), "Baldwin", "hockey"))
	llm.AssertExpectations(t)

	offline := &AliasGenerator{Intn: func(n int) int { return n - 1 }}
	assert.Equal(t, "Golden Dragon", offline.GenerateAlias(context.Background(), "Baldwin", ""))
}

func TestTimeScore(t *testing.T) {
	p := Predictor{Location: time.UTC}
	assert.InDelta(t, 0.55, p.TimeScore("2025-03-15T21:00:00"), 1e-9)
	assert.Equal(t, 0.2, p.TimeScore("2025-03-18T18:00:00Z"))
	assert.Equal(t, 0.0, p.TimeScore("2025-03-18T09:00:00"))
	assert.Equal(t, 0.5, p.TimeScore("soon"))
}

func TestFactorScores(t *testing.T) {
	assert.Equal(t, 0.85, LocationScore("Walsh Hall lounge"))
	assert.Equal(t, 0.5, LocationScore("Somewhere"))

	assert.Equal(t, 0.5, CapacityScore(3, 0))
	assert.Equal(t, 1.0, CapacityScore(35, 50))
	assert.Equal(t, 0.8, CapacityScore(25, 50))
	assert.Equal(t, 0.7, CapacityScore(45, 50))
	assert.Equal(t, 0.5, CapacityScore(50, 50))
	assert.Equal(t, 0.3, CapacityScore(1, 50))

	assert.Equal(t, 0.5, ClubScore(false, "Comedy Club"))
	assert.Equal(t, 0.8, ClubScore(true, "BC Comedy Club"))
	assert.Equal(t, 0.7, ClubScore(true, "Chess"))

	assert.Equal(t, 0.5, VibeScore(nil))
	assert.Equal(t, 0.6, VibeScore([]string{"🔥"}))
	assert.Equal(t, 0.8, VibeScore([]string{"🔥", "🎉", "🎶"}))
}

func TestPredict(t *testing.T) {
	p := Predictor{Location: time.UTC}

	strong := p.Predict(models.InsightEvent{
		EventID:        "e1",
		FunctionName:   "Improv Night",
		Location:       "Walsh Hall",
		Date:           "2025-03-15T21:00:00",
		RSVPCount:      35,
		MaxCapacity:    50,
		ClubAffiliated: true,
		ClubName:       "Comedy Club",
		EmojiVibe:      []string{"😂", "🎤", "🍕"},
	})
	assert.Equal(t, "e1", strong.EventID)
	assert.Equal(t, 80, strong.Score)
	assert.Equal(t, "Strong current interest and good overall setup", strong.Reason)
	assert.Len(t, strong.Factors, 5)

	weak := p.Predict(models.InsightEvent{
		ID:          "e2",
		Location:    "Somewhere",
		Date:        "2025-03-18T09:00:00",
		MaxCapacity: 50,
	})
	assert.Equal(t, 31, weak.Score)
	assert.Equal(t, "Consider improving timing and current interest", weak.Reason)
}

func TestEventInsights_CachesRecommendation(t *testing.T) {
	llm := new(mockLLM)
	llm.On("GenerateContent", mock.Anything).Return("  Improv Night is the move.  ", nil).Once()
	svc := &DefaultAIService{LLM: llm, Cache: mapCache{}, Predictor: Predictor{Location: time.UTC}}
	events := []models.InsightEvent{
		{ID: "a", Location: "Somewhere", Date: "2025-03-18T09:00:00", MaxCapacity: 50},
		{ID: "b", Location: "Walsh Hall", Date: "2025-03-15T21:00:00", RSVPCount: 35, MaxCapacity: 50},
	}

	first, err := svc.EventInsights(context.Background(), events)
	require.NoError(t, err)
	assert.Equal(t, "Improv Night is the move.", first.Recommendation)
	require.Len(t, first.SuccessPredictions, 2)
	assert.Equal(t, "b", first.SuccessPredictions[0].EventID)

	second, err := svc.EventInsights(context.Background(), events)
	require.NoError(t, err)
	assert.Equal(t, first.Recommendation, second.Recommendation)
	llm.AssertExpectations(t)
}

func TestRecommendationPrompt_UsesRequestOrder(t *testing.T) {
	var events []models.InsightEvent
	for _, name := range []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth"} {
		events = append(events, models.InsightEvent{FunctionName: name, Location: "Walsh Hall", MaxCapacity: 50})
	}
	// The last event would score highest.
	events[5].RSVPCount = 35
	events[5].Date = "2025-03-15T21:00:00"

	prompt := recommendationPrompt(events)
	assert.Contains(t, prompt, "- First at Walsh Hall")
	assert.Contains(t, prompt, "- Fifth at Walsh Hall")
	assert.NotContains(t, prompt, "Sixth")
	assert.Less(t, strings.Index(prompt, "First"), strings.Index(prompt, "Second"))
}

func TestEventInsights_WithoutModel(t *testing.T) {
	svc := &DefaultAIService{Predictor: Predictor{}}
	resp, err := svc.EventInsights(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.SuccessPredictions)
	assert.Equal(t, DefaultRecommendation, resp.Recommendation)
}

func TestGoatedPrediction(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	repo := testutils.NewMemoryEventRepo(
		&models.Event{ID: "quiet", FunctionName: "Study Hall", Location: "O'Neill", Date: now.Add(24 * time.Hour),
			MaxCapacity: 50, PublicOrPrivate: models.VisibilityPublic, Status: models.StatusUpcoming},
		&models.Event{ID: "hype", FunctionName: "Mods Party", Location: "The Mods", Date: time.Date(2025, 3, 15, 21, 0, 0, 0, time.UTC),
			MaxCapacity: 100, RSVPCount: 70, PublicOrPrivate: models.VisibilityPublic, Status: models.StatusUpcoming,
			EmojiVibe: []string{"🎉", "🔥", "🍻"}},
		&models.Event{ID: "far", FunctionName: "Later", Location: "The Mods", Date: now.Add(20 * 24 * time.Hour),
			MaxCapacity: 100, RSVPCount: 70, PublicOrPrivate: models.VisibilityPublic, Status: models.StatusUpcoming},
	)
	svc := &DefaultAIService{Events: repo, Predictor: Predictor{Location: time.UTC}, Now: func() time.Time { return now }}

	resp, err := svc.GoatedPrediction(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.GoatedEvent)
	assert.Equal(t, "hype", resp.GoatedEvent.ID)
	assert.GreaterOrEqual(t, resp.Prediction.PredictedRSVPs, 70)
	assert.NotEmpty(t, resp.Prediction.Confidence)

	empty := &DefaultAIService{Events: testutils.NewMemoryEventRepo(), Now: func() time.Time { return now }}
	resp, err = empty.GoatedPrediction(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.GoatedEvent)
	assert.Equal(t, "No upcoming events in the next 10 days", resp.Message)
}

func TestPredictRSVPsAndConfidence(t *testing.T) {
	assert.Equal(t, 40, PredictRSVPs(models.Event{MaxCapacity: 50, RSVPCount: 10}, 80))
	assert.Equal(t, 20, PredictRSVPs(models.Event{RSVPCount: 20}, 10))
	assert.Equal(t, "High", Confidence(75))
	assert.Equal(t, "Medium", Confidence(55))
	assert.Equal(t, "Low", Confidence(54))
}
