package models

// InsightEvent is an event as submitted for success prediction. Clients send
// either "id" or "event_id" and the date as a string.
type InsightEvent struct {
	ID              string   `json:"id"`
	EventID         string   `json:"event_id"`
	FunctionName    string   `json:"function_name"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	OrganizerAlias  string   `json:"organizer_alias"`
	RSVPCount       int      `json:"rsvp_count"`
	MaxCapacity     int      `json:"max_capacity"`
	ClubAffiliated  bool     `json:"club_affiliated"`
	ClubName        string   `json:"club_name"`
	EmojiVibe       []string `json:"emoji_vibe"`
	InvitationImage string   `json:"invitation_image"`
}

// Identifier returns whichever id the client supplied.
func (e InsightEvent) Identifier() string {
	if e.ID != "" {
		return e.ID
	}
	return e.EventID
}

// EventInsightsRequest is the body of POST /api/ai/event-insights.
type EventInsightsRequest struct {
	Events []InsightEvent `json:"events"`
}

// SuccessPrediction scores one event 0..100.
type SuccessPrediction struct {
	EventID   string             `json:"eventId"`
	EventName string             `json:"eventName"`
	Score     int                `json:"score"`
	Reason    string             `json:"reason"`
	Factors   map[string]float64 `json:"factors"`
}

// EventInsightsResponse pairs predictions with a short text recommendation.
type EventInsightsResponse struct {
	SuccessPredictions []SuccessPrediction `json:"successPredictions"`
	Recommendation     string              `json:"recommendation"`
}

// GoatedPrediction describes the best upcoming event.
type GoatedPrediction struct {
	GoatedScore    int                `json:"goated_score"`
	PredictedRSVPs int                `json:"predicted_rsvps"`
	Confidence     string             `json:"confidence"`
	Reason         string             `json:"reason"`
	Factors        map[string]float64 `json:"factors"`
}

// GoatedResponse is the body of GET /api/goated-prediction.
type GoatedResponse struct {
	GoatedEvent *Event            `json:"goated_event,omitempty"`
	Prediction  *GoatedPrediction `json:"prediction,omitempty"`
	Message     string            `json:"message,omitempty"`
}
