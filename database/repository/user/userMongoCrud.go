package userRepo

import (
	"fmt"
	"strings"
	"time"

	"bcplughub/database"
	"bcplughub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(user *models.User) error {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.BCEmail = strings.ToLower(strings.TrimSpace(user.BCEmail))

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", database.Translate(err))
	}
	return nil
}

// update runs a single-document update and reports a missing user as ErrNotFound.
func (r *MongoUserRepo) update(id string, filter, update bson.M) error {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	filter["id"] = id

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// UpdateSetDocument updates specific fields using the $set operator.
func (r *MongoUserRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range updateDoc {
		set[k] = v
	}
	return r.update(id, nil, bson.M{"$set": set})
}

func (r *MongoUserRepo) SetPersonalRating(id string, rating float64) error {
	return r.UpdateSetDocument(id, bson.M{"personal_rating": rating})
}

func (r *MongoUserRepo) AddCurrentFunction(id string, fn models.CurrentFunction) error {
	return r.update(id, nil, bson.M{
		"$push": bson.M{"current_functions": fn},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoUserRepo) RemoveCurrentFunction(id, eventID string) error {
	return r.update(id, nil, bson.M{
		"$pull": bson.M{"current_functions": bson.M{"event_id": eventID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoUserRepo) AddPastFunction(id string, fn models.PastFunction) error {
	return r.update(id, nil, bson.M{
		"$push": bson.M{"past_functions": fn},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoUserRepo) CompleteFunction(id, eventID string, past models.PastFunction) error {
	return r.update(id, nil, bson.M{
		"$pull": bson.M{"current_functions": bson.M{"event_id": eventID}},
		"$push": bson.M{"past_functions": past},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoUserRepo) FinalizePastFunction(id, eventID string, finalRating float64) error {
	return r.update(id, bson.M{"past_functions.event_id": eventID}, bson.M{
		"$set": bson.M{
			"past_functions.$.final_rating":     finalRating,
			"past_functions.$.rating_finalized": true,
			"updated_at":                        time.Now().UTC(),
		},
	})
}

// AddTokenHash records an issued session, keeping only the newest few.
func (r *MongoUserRepo) AddTokenHash(id, hash string) error {
	return r.update(id, nil, bson.M{
		"$push": bson.M{"token_hashes": bson.M{"$each": []string{hash}, "$slice": -maxTokenHashes}},
	})
}

func (r *MongoUserRepo) RemoveTokenHash(id, hash string) error {
	return r.update(id, nil, bson.M{"$pull": bson.M{"token_hashes": hash}})
}
