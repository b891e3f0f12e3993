// Package stores holds the persistence layer: narrow interfaces over
// single-document atomic operations, plus their MongoDB implementations.
// Nothing here makes business decisions; multi-record consistency is the
// services' job.
package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/models"
)

var (
	// ErrNotFound is returned when the targeted document does not exist,
	// or no longer matches the operation's precondition.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicatePair is returned by RequestStore.Insert when a request
	// for the same unordered pair already exists.
	ErrDuplicatePair = errors.New("request already exists for pair")
)

// UserStore exposes the per-user-document primitives the engine needs.
// Each call is atomic on a single user document.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FriendIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error)
	AddFriend(ctx context.Context, id, friendId primitive.ObjectID) error
	RemoveFriend(ctx context.Context, id, friendId primitive.ObjectID) error
	FindCandidates(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error)
}

// RequestStore persists friend requests. Only pending requests are ever
// stored: terminal transitions remove the record via ClaimPending.
type RequestStore interface {
	Insert(ctx context.Context, req models.FriendRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.FriendRequest, error)
	FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (models.FriendRequest, error)
	// ClaimPending atomically removes the request iff it is still pending
	// and returns it. Concurrent claims on the same id resolve to exactly
	// one winner; losers get ErrNotFound.
	ClaimPending(ctx context.Context, id primitive.ObjectID) (models.FriendRequest, error)
	DeleteForPair(ctx context.Context, a, b primitive.ObjectID) error
	ListPendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.FriendRequest, error)
}

// NotificationStore persists notifications for the fan-out engine.
type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	ListForRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	DeleteByID(ctx context.Context, id, recipient primitive.ObjectID) error
	DeleteByReference(ctx context.Context, reference primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
}
