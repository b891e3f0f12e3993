package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialite-app/backend/src/models"
)

type MongoRequestStore struct {
	col *mongo.Collection
}

func NewMongoRequestStore(db *mongo.Database) *MongoRequestStore {
	return &MongoRequestStore{col: db.Collection("friend_requests")}
}

func (s *MongoRequestStore) Insert(ctx context.Context, req models.FriendRequest) error {
	_, err := s.col.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicatePair
	}
	return err
}

func (s *MongoRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FriendRequest{}, ErrNotFound
	}
	if err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (s *MongoRequestStore) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (models.FriendRequest, error) {
	filter := bson.M{
		"pairKey": models.PairKey(a, b),
		"status":  models.RequestStatusPending,
	}

	var req models.FriendRequest
	err := s.col.FindOne(ctx, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FriendRequest{}, ErrNotFound
	}
	if err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

// ClaimPending deletes the request in a single document operation, keyed
// on the stored status. Whichever caller observes pending first wins.
func (s *MongoRequestStore) ClaimPending(ctx context.Context, id primitive.ObjectID) (models.FriendRequest, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.RequestStatusPending,
	}

	var req models.FriendRequest
	err := s.col.FindOneAndDelete(ctx, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FriendRequest{}, ErrNotFound
	}
	if err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (s *MongoRequestStore) DeleteForPair(ctx context.Context, a, b primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"pairKey": models.PairKey(a, b)})
	return err
}

func (s *MongoRequestStore) ListPendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": userId},
			{"recipient": userId},
		},
		"status": models.RequestStatusPending,
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
