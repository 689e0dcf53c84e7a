package models

import "time"

// CurrentFunction is an organiser's summary of a function that has not happened yet.
type CurrentFunction struct {
	FunctionName         string    `bson:"function_name" json:"function_name"`
	EventID              string    `bson:"event_id" json:"event_id"`
	EmojiVibe            []string  `bson:"emoji_vibe" json:"emoji_vibe"`
	Status               string    `bson:"status" json:"status"`
	Date                 time.Time `bson:"date" json:"date"`
	PublicOrPrivate      string    `bson:"public_or_private" json:"public_or_private"`
	NumberOfInvites      int       `bson:"number_of_invites" json:"number_of_invites"`
	NumberOfInviteShares int       `bson:"number_of_invite_shares" json:"number_of_invite_shares"`
	InvitationImage      string    `bson:"invitation_image,omitempty" json:"invitation_image,omitempty"`
}

// PastFunction is a completed function with its outcome.
type PastFunction struct {
	CurrentFunction          `bson:",inline"`
	Rating                   float64    `bson:"rating" json:"rating"`
	PeopleInvited            []string   `bson:"people_invited" json:"people_invited"`
	Location                 string     `bson:"location" json:"location"`
	ClubAffiliated           bool       `bson:"club_affiliated" json:"club_affiliated"`
	BeforeFunctionUserRating float64    `bson:"before_function_user_rating" json:"before_function_user_rating"`
	AfterFunctionUserRating  float64    `bson:"after_function_user_rating" json:"after_function_user_rating"`
	Comments                 []string   `bson:"comments" json:"comments"`
	CompletedAt              *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	FinalAttendeeCount       int        `bson:"final_attendee_count" json:"final_attendee_count"`
	OriginalEventID          string     `bson:"original_event_id,omitempty" json:"original_event_id,omitempty"`
	FinalRating              *float64   `bson:"final_rating,omitempty" json:"final_rating,omitempty"`
	RatingFinalized          bool       `bson:"rating_finalized" json:"rating_finalized"`
}

// UserFunctions is the combined view returned for a user's functions page.
type UserFunctions struct {
	UserID                string            `json:"user_id"`
	CurrentFunctions      []CurrentFunction `json:"current_functions"`
	PastFunctions         []PastFunction    `json:"past_functions"`
	CurrentFunctionsCount int               `json:"current_functions_count"`
	PastFunctionsCount    int               `json:"past_functions_count"`
	PersonalRating        float64           `json:"personal_rating"`
}
