package models

import "time"

// DefaultPersonalRating is the rating every new user starts with.
const DefaultPersonalRating = 5.0

// MinPersonalRating is the floor applied by cancellation penalties.
const MinPersonalRating = 1.0

// User is a registered student.
type User struct {
	ID                     string            `bson:"id" json:"user_id"`
	BCEmail                string            `bson:"bc_email" json:"bc_email"`
	Name                   string            `bson:"name" json:"name"`
	PasswordHash           string            `bson:"password_hash" json:"-"`
	AIGeneratedAlias       string            `bson:"ai_generated_alias" json:"ai_generated_alias"`
	PersonalRating         float64           `bson:"personal_rating" json:"personal_rating"`
	InstagramHandle        string            `bson:"instagram_handle" json:"instagram_handle"`
	InstagramFollowers     []string          `bson:"instagram_followers" json:"instagram_followers"`
	InstagramFollowerCount int               `bson:"instagram_follower_count" json:"instagram_follower_count"`
	BCClubAffiliations     []string          `bson:"bc_club_affiliations" json:"bc_club_affiliations"`
	CurrentFunctions       []CurrentFunction `bson:"current_functions" json:"current_functions"`
	PastFunctions          []PastFunction    `bson:"past_functions" json:"past_functions"`
	FCMToken               string            `bson:"fcm_token,omitempty" json:"-"`
	TokenHashes            []string          `bson:"token_hashes,omitempty" json:"-"`
	CreatedAt              time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time         `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the public directory entry used for invite pickers.
type UserSummary struct {
	UserID         string  `bson:"id" json:"user_id"`
	Alias          string  `bson:"ai_generated_alias" json:"alias"`
	BCEmail        string  `bson:"bc_email" json:"bc_email"`
	PersonalRating float64 `bson:"personal_rating" json:"personal_rating"`
}

// DisplayName prefers the alias over the legal name.
func (u *User) DisplayName() string {
	if u.AIGeneratedAlias != "" {
		return u.AIGeneratedAlias
	}
	return u.Name
}
