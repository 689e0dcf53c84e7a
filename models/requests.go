package models

import "time"

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	BCEmail         string `json:"bc_email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	InstagramHandle string `json:"instagram_handle"`
}

// LoginRequest carries credentials from either the query string or a JSON body.
type LoginRequest struct {
	BCEmail  string `json:"bc_email" form:"bc_email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	UserID           string     `json:"user_id"`
	BCEmail          string     `json:"bc_email"`
	Name             string     `json:"name"`
	AIGeneratedAlias string     `json:"ai_generated_alias"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	Token            string     `json:"token,omitempty"`
	Message          string     `json:"message,omitempty"`
}

type AliasRequest struct {
	Description string `json:"description"`
}

type InstagramUpdateRequest struct {
	InstagramHandle    string   `json:"instagram_handle"`
	InstagramFollowers []string `json:"instagram_followers"`
}

type ClubsUpdateRequest struct {
	BCClubAffiliations []string `json:"bc_club_affiliations"`
}

type FCMTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

// EventCreateRequest is the body of POST /api/events. Date is parsed server-side.
type EventCreateRequest struct {
	FunctionName    string   `json:"function_name"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	Description     string   `json:"description"`
	EmojiVibe       []string `json:"emoji_vibe"`
	MaxCapacity     int      `json:"max_capacity"`
	PublicOrPrivate string   `json:"public_or_private"`
	ClubAffiliated  bool     `json:"club_affiliated"`
	ClubName        string   `json:"club_name"`
	OrganizerUserID string   `json:"organizer_user_id"`
	OrganizerAlias  string   `json:"organizer_alias"`
	InvitationImage string   `json:"invitation_image"`
}

type RSVPRequest struct {
	UserID    string `json:"user_id"`
	UserAlias string `json:"user_alias"`
}

type InviteUsersRequest struct {
	InvitedUserIDs  []string `json:"invited_user_ids"`
	PersonalMessage string   `json:"personal_message"`
}

type CancelEventRequest struct {
	UserID           string `json:"user_id"`
	CancelledSameDay bool   `json:"cancelled_same_day"`
}

type RateEventRequest struct {
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Attended bool   `json:"attended"`
}

// InvitePreviewRequest is the body of POST /api/generate-invite-preview.
type InvitePreviewRequest struct {
	FunctionName   string   `json:"function_name"`
	Location       string   `json:"location"`
	Date           string   `json:"date"`
	EmojiVibe      []string `json:"emoji_vibe"`
	OrganizerAlias string   `json:"organizer_alias"`
	Description    string   `json:"description"`
}
