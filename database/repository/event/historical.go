package eventRepo

import (
	"errors"
	"fmt"
	"time"

	"bcplughub/database"
	"bcplughub/models"
	"bcplughub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoHistoricalRepo implements HistoricalRepository using MongoDB.
type MongoHistoricalRepo struct {
	coll *mongo.Collection
}

// NewMongoHistoricalRepo creates the historical_events repository and its indexes.
func NewMongoHistoricalRepo(db *mongo.Database) HistoricalRepository {
	repo := &MongoHistoricalRepo{coll: db.Collection("historical_events")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("historical_events: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoHistoricalRepo) Archive(event *models.HistoricalEvent) error {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	filter := bson.M{"original_event_id": event.OriginalEventID}
	update := bson.M{"$setOnInsert": event}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to archive event %s: %w", event.OriginalEventID, err)
	}
	return nil
}

func (r *MongoHistoricalRepo) GetByOriginalID(eventID string) (*models.HistoricalEvent, error) {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	var event models.HistoricalEvent
	if err := r.coll.FindOne(ctx, bson.M{"original_event_id": eventID}).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to fetch historical event %s: %w", eventID, database.Translate(err))
	}
	return &event, nil
}

func (r *MongoHistoricalRepo) find(filter bson.M, opts *options.FindOptions) ([]models.HistoricalEvent, error) {
	ctx, cancel := database.NewContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.HistoricalEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode historical events: %w", err)
	}
	return events, nil
}

func (r *MongoHistoricalRepo) List(limit, offset int64) ([]models.HistoricalEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	return r.find(bson.M{}, opts)
}

func (r *MongoHistoricalRepo) ListFinalizable(cutoff time.Time) ([]models.HistoricalEvent, error) {
	return r.find(bson.M{
		"rating_finalized": bson.M{"$ne": true},
		"date":             bson.M{"$lt": cutoff},
		"total_ratings":    bson.M{"$gt": 0},
	}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *MongoHistoricalRepo) AddRating(eventID string, rating models.EventRating) (*models.HistoricalEvent, error) {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	filter := bson.M{
		"original_event_id": eventID,
		"ratings.user_id":   bson.M{"$ne": rating.UserID},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ratings": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
				bson.M{"$literal": bson.A{rating}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"total_ratings":  bson.M{"$size": "$ratings"},
			"average_rating": bson.M{"$avg": "$ratings.rating"},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var event models.HistoricalEvent
	err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add rating to %s: %w", eventID, err)
	}
	return &event, nil
}

func (r *MongoHistoricalRepo) MarkFinalized(eventID string, at time.Time) (bool, error) {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	filter := bson.M{"original_event_id": eventID, "rating_finalized": bson.M{"$ne": true}}
	update := bson.M{"$set": bson.M{"rating_finalized": true, "rating_finalized_at": at}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to finalize %s: %w", eventID, err)
	}
	return result.ModifiedCount > 0, nil
}
