package models

import (
	"strings"
	"time"
)

// Event statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Event visibility.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

const (
	DefaultMaxCapacity    = 50
	MaxAllowedCapacity    = 1000
	DefaultOrganizerAlias = "Anonymous"
)

// Attendee is one confirmed RSVP.
type Attendee struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	UserAlias string    `bson:"user_alias" json:"user_alias"`
	RSVPTime  time.Time `bson:"rsvp_time" json:"rsvp_time"`
}

// Event is a scheduled function.
type Event struct {
	ID              string     `bson:"id" json:"event_id"`
	FunctionName    string     `bson:"function_name" json:"function_name"`
	Location        string     `bson:"location" json:"location"`
	Date            time.Time  `bson:"date" json:"date"`
	Description     string     `bson:"description" json:"description"`
	EmojiVibe       []string   `bson:"emoji_vibe" json:"emoji_vibe"`
	MaxCapacity     int        `bson:"max_capacity" json:"max_capacity"`
	PublicOrPrivate string     `bson:"public_or_private" json:"public_or_private"`
	ClubAffiliated  bool       `bson:"club_affiliated" json:"club_affiliated"`
	ClubName        string     `bson:"club_name,omitempty" json:"club_name,omitempty"`
	OrganizerUserID string     `bson:"organizer_user_id" json:"organizer_user_id"`
	OrganizerAlias  string     `bson:"organizer_alias" json:"organizer_alias"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	Status          string     `bson:"status" json:"status"`
	Attendees       []Attendee `bson:"attendees" json:"attendees"`
	InvitedUsers    []string   `bson:"invited_users" json:"invited_users"`
	InviteCount     int        `bson:"invite_count" json:"invite_count"`
	RSVPCount       int        `bson:"rsvp_count" json:"rsvp_count"`
	InvitationImage string     `bson:"invitation_image,omitempty" json:"invitation_image,omitempty"`
}

// IsPrivate reports whether the event is invite-only.
func (e *Event) IsPrivate() bool {
	return strings.EqualFold(e.PublicOrPrivate, VisibilityPrivate)
}

// HasAttendee reports whether userID already RSVP'd.
func (e *Event) HasAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// IsInvited reports whether userID is on the invite list.
func (e *Event) IsInvited(userID string) bool {
	for _, id := range e.InvitedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Participants returns attendees and invitees without duplicates.
func (e *Event) Participants() []string {
	seen := make(map[string]struct{}, len(e.Attendees)+len(e.InvitedUsers))
	var out []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, a := range e.Attendees {
		add(a.UserID)
	}
	for _, id := range e.InvitedUsers {
		add(id)
	}
	return out
}

// EventRating is a single post-event rating.
type EventRating struct {
	UserID   string    `bson:"user_id" json:"user_id"`
	Rating   int       `bson:"rating" json:"rating"`
	Comment  string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Attended bool      `bson:"attended" json:"attended"`
	RatedAt  time.Time `bson:"rated_at" json:"rated_at"`
}

// HistoricalEvent is an archived event collecting ratings.
type HistoricalEvent struct {
	Event               `bson:",inline"`
	OriginalEventID     string        `bson:"original_event_id" json:"original_event_id"`
	MovedToHistoricalAt time.Time     `bson:"moved_to_historical_at" json:"moved_to_historical_at"`
	Ratings             []EventRating `bson:"ratings" json:"ratings"`
	AverageRating       float64       `bson:"average_rating" json:"average_rating"`
	TotalRatings        int           `bson:"total_ratings" json:"total_ratings"`
	RatingFinalized     bool          `bson:"rating_finalized" json:"rating_finalized"`
	RatingFinalizedAt   *time.Time    `bson:"rating_finalized_at,omitempty" json:"rating_finalized_at,omitempty"`
}

// HasRated reports whether userID already submitted a rating.
func (h *HistoricalEvent) HasRated(userID string) bool {
	for _, r := range h.Ratings {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
