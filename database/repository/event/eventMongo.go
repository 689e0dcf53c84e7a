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

// MongoEventRepo implements EventRepository using MongoDB.
type MongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo creates the events repository and its indexes.
func NewMongoEventRepo(db *mongo.Database) EventRepository {
	repo := &MongoEventRepo{coll: db.Collection("events")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("events: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoEventRepo) Create(event *models.Event) error {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoEventRepo) GetByID(id string) (*models.Event, error) {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	var event models.Event
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, database.Translate(err))
	}
	return &event, nil
}

func (r *MongoEventRepo) Delete(id string) error {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("event %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoEventRepo) find(filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	ctx, cancel := database.NewContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func byDateAsc() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
}

func (r *MongoEventRepo) ListPublicUpcoming() ([]models.Event, error) {
	return r.find(bson.M{
		"public_or_private": models.VisibilityPublic,
		"status":            models.StatusUpcoming,
	}, byDateAsc())
}

func (r *MongoEventRepo) ListPublicUpcomingBetween(from, to time.Time) ([]models.Event, error) {
	return r.find(bson.M{
		"public_or_private": models.VisibilityPublic,
		"status":            models.StatusUpcoming,
		"date":              bson.M{"$gte": from, "$lte": to},
	}, byDateAsc())
}

func (r *MongoEventRepo) ListByOrganizer(organizerID, status string) ([]models.Event, error) {
	filter := bson.M{"organizer_user_id": organizerID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(filter, byDateAsc())
}

func (r *MongoEventRepo) ListStartedBefore(cutoff time.Time) ([]models.Event, error) {
	return r.find(bson.M{"date": bson.M{"$lt": cutoff}}, byDateAsc())
}

// findAndUpdate returns the updated document or ErrNoMatch.
func (r *MongoEventRepo) findAndUpdate(filter, update bson.M) (*models.Event, error) {
	ctx, cancel := database.NewContext(defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var event models.Event
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &event, nil
}

func sizeOf(field string) bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}}
}

func (r *MongoEventRepo) AddAttendee(eventID string, attendee models.Attendee) (*models.Event, error) {
	filter := bson.M{
		"id":                eventID,
		"attendees.user_id": bson.M{"$ne": attendee.UserID},
		"$expr":             bson.M{"$lt": bson.A{sizeOf("attendees"), "$max_capacity"}},
	}
	update := bson.M{
		"$push": bson.M{"attendees": attendee},
		"$inc":  bson.M{"rsvp_count": 1},
	}
	return r.findAndUpdate(filter, update)
}

func (r *MongoEventRepo) RemoveAttendee(eventID, userID string) (*models.Event, error) {
	filter := bson.M{"id": eventID, "attendees.user_id": userID}
	update := bson.M{
		"$pull": bson.M{"attendees": bson.M{"user_id": userID}},
		"$inc":  bson.M{"rsvp_count": -1},
	}
	return r.findAndUpdate(filter, update)
}

func (r *MongoEventRepo) AddInvitees(eventID string, userIDs []string) (*models.Event, error) {
	filter := bson.M{
		"id":            eventID,
		"invited_users": bson.M{"$nin": userIDs},
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{sizeOf("invited_users"), len(userIDs)}},
			"$max_capacity",
		}},
	}
	update := bson.M{
		"$push": bson.M{"invited_users": bson.M{"$each": userIDs}},
		"$inc":  bson.M{"invite_count": len(userIDs)},
	}
	return r.findAndUpdate(filter, update)
}
