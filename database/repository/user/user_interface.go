package userRepo

import (
	"time"

	"bcplughub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user; database.ErrDuplicate if the email is taken.
	Create(user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	// GetByEmail retrieves a user by institutional email (case-insensitive).
	GetByEmail(email string) (*models.User, error)
	// ListSummaries returns the public directory sorted by alias.
	ListSummaries() ([]models.UserSummary, error)

	// UpdateSetDocument applies a $set to the user document.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// SetPersonalRating overwrites the user's rating.
	SetPersonalRating(id string, rating float64) error

	AddCurrentFunction(id string, fn models.CurrentFunction) error
	RemoveCurrentFunction(id, eventID string) error
	AddPastFunction(id string, fn models.PastFunction) error
	// CompleteFunction moves eventID from current to past functions in one update.
	CompleteFunction(id, eventID string, past models.PastFunction) error
	// FinalizePastFunction records the final rating on a past function.
	FinalizePastFunction(id, eventID string, finalRating float64) error

	AddTokenHash(id, hash string) error
	RemoveTokenHash(id, hash string) error
}

// maxTokenHashes bounds the number of concurrent sessions per user.
const maxTokenHashes = 10

const defaultTimeout = 5 * time.Second
