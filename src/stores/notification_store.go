package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialite-app/backend/src/models"
)

type MongoNotificationStore struct {
	col *mongo.Collection
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{col: db.Collection("notifications")}
}

func (s *MongoNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.col.InsertOne(ctx, n)
	return err
}

func (s *MongoNotificationStore) ListForRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	filter := bson.M{"recipient": recipient}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead sets the read flag. The filter does not require read=false, so
// re-marking an already-read notification succeeds and returns it as-is.
func (s *MongoNotificationStore) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error) {
	filter := bson.M{
		"_id":       id,
		"recipient": recipient,
	}
	update := bson.M{
		"$set": bson.M{
			"read":      true,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Notification
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return updated, nil
}

func (s *MongoNotificationStore) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"recipient": recipient,
		"read":      false,
	}
	update := bson.M{
		"$set": bson.M{
			"read":      true,
			"updatedAt": time.Now(),
		},
	}

	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *MongoNotificationStore) DeleteByID(ctx context.Context, id, recipient primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoNotificationStore) DeleteByReference(ctx context.Context, reference primitive.ObjectID) (int64, error) {
	result, err := s.col.DeleteMany(ctx, bson.M{"reference": reference})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *MongoNotificationStore) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient": recipient, "read": false})
}
