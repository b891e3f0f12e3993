package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/apperr"
	"github.com/socialite-app/backend/src/models"
	"github.com/socialite-app/backend/src/stores"
)

const defaultSuggestionLimit = 5

// FriendshipStatus is the viewer-relative relationship state.
type FriendshipStatus string

const (
	StatusSelf            FriendshipStatus = "self"
	StatusFriends         FriendshipStatus = "friends"
	StatusPendingSent     FriendshipStatus = "pending_sent"
	StatusPendingReceived FriendshipStatus = "pending_received"
	StatusNone            FriendshipStatus = "none"
)

// QueryService derives read-only relationship views. Nothing here
// mutates state or creates notifications.
type QueryService struct {
	users    stores.UserStore
	requests stores.RequestStore
}

func NewQueryService(users stores.UserStore, requests stores.RequestStore) *QueryService {
	return &QueryService{users: users, requests: requests}
}

// FriendshipStatus resolves the state between viewer and target,
// checking identity, then friend-set membership, then pending-request
// direction. When a pending request exists it is returned alongside the
// status so callers can act on it directly.
func (s *QueryService) FriendshipStatus(ctx context.Context, viewer, target primitive.ObjectID) (FriendshipStatus, models.FriendRequest, error) {
	if viewer == target {
		return StatusSelf, models.FriendRequest{}, nil
	}

	friendIds, err := s.users.FriendIDs(ctx, viewer)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return "", models.FriendRequest{}, apperr.NotFound("User not found")
		}
		return "", models.FriendRequest{}, err
	}
	for _, id := range friendIds {
		if id == target {
			return StatusFriends, models.FriendRequest{}, nil
		}
	}

	request, err := s.requests.FindPendingBetween(ctx, viewer, target)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return StatusNone, models.FriendRequest{}, nil
		}
		return "", models.FriendRequest{}, err
	}

	if request.Sender == viewer {
		return StatusPendingSent, request, nil
	}
	return StatusPendingReceived, request, nil
}

// Suggestions returns candidate users: everyone except the user, their
// current friends and anyone tied to them by a pending request in either
// direction. Ordering is stable across calls with unchanged state.
func (s *QueryService) Suggestions(ctx context.Context, userId primitive.ObjectID, limit int64) ([]models.UserDto, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	friendIds, err := s.users.FriendIDs(ctx, userId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	pending, err := s.requests.ListPendingFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	exclude := make([]primitive.ObjectID, 0, 1+len(friendIds)+len(pending))
	exclude = append(exclude, userId)
	exclude = append(exclude, friendIds...)
	for _, request := range pending {
		exclude = append(exclude, request.Other(userId))
	}

	candidates, err := s.users.FindCandidates(ctx, exclude, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.UserDto, 0, len(candidates))
	for _, candidate := range candidates {
		suggestions = append(suggestions, candidate.Dto())
	}
	return suggestions, nil
}

// ListPending returns every pending request involving the user, newest
// first, in both directions.
func (s *QueryService) ListPending(ctx context.Context, userId primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.requests.ListPendingFor(ctx, userId)
}

// PendingSenderIDs is the compatibility view of the legacy per-user
// request inbox: the ids of users with a pending request directed at
// userId. It is derived from the request store on every call and never
// written back, so the request collection stays the single source of
// truth.
func (s *QueryService) PendingSenderIDs(ctx context.Context, userId primitive.ObjectID) ([]primitive.ObjectID, error) {
	pending, err := s.requests.ListPendingFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	senders := make([]primitive.ObjectID, 0, len(pending))
	for _, request := range pending {
		if request.Recipient == userId {
			senders = append(senders, request.Sender)
		}
	}
	return senders, nil
}

// Friends returns the user's friend set.
func (s *QueryService) Friends(ctx context.Context, userId primitive.ObjectID) ([]primitive.ObjectID, error) {
	friendIds, err := s.users.FriendIDs(ctx, userId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return friendIds, nil
}
