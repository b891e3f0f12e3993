package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/apperr"
	"github.com/socialite-app/backend/src/models"
	"github.com/socialite-app/backend/src/stores"
)

// FriendService owns the friend-request state machine and the
// compensating writes that keep both users' friend sets and the request
// record consistent. The store offers no cross-document transactions, so
// every multi-record operation here is a sequence of idempotent
// single-document writes: friend sets mutate via set union/difference and
// terminal transitions claim the request record atomically, which makes
// the stored status the single source of truth under concurrent calls.
type FriendService struct {
	users    stores.UserStore
	requests stores.RequestStore
	notifs   *NotificationService
	log      *slog.Logger
}

func NewFriendService(users stores.UserStore, requests stores.RequestStore, notifs *NotificationService, logger *slog.Logger) *FriendService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FriendService{
		users:    users,
		requests: requests,
		notifs:   notifs,
		log:      logger,
	}
}

// SendRequest creates a pending request from sender to recipient and
// notifies the recipient. The recipient is the only side notified.
func (s *FriendService) SendRequest(ctx context.Context, sender, recipient primitive.ObjectID) (models.FriendRequest, error) {
	if sender == recipient {
		return models.FriendRequest{}, apperr.InvalidOperation("You can't send a friend request to yourself")
	}

	if _, err := s.users.FindByID(ctx, recipient); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return models.FriendRequest{}, apperr.NotFound("User not found")
		}
		return models.FriendRequest{}, err
	}

	friendIds, err := s.users.FriendIDs(ctx, sender)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return models.FriendRequest{}, apperr.NotFound("User not found")
		}
		return models.FriendRequest{}, err
	}
	for _, id := range friendIds {
		if id == recipient {
			return models.FriendRequest{}, apperr.Conflict("You are already friends with this user")
		}
	}

	existing, err := s.requests.FindPendingBetween(ctx, sender, recipient)
	if err == nil {
		return models.FriendRequest{}, duplicateRequestConflict(existing, sender)
	}
	if !errors.Is(err, stores.ErrNotFound) {
		return models.FriendRequest{}, err
	}

	request := models.FriendRequest{
		Id:        primitive.NewObjectID(),
		Sender:    sender,
		Recipient: recipient,
		PairKey:   models.PairKey(sender, recipient),
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.requests.Insert(ctx, request); err != nil {
		if errors.Is(err, stores.ErrDuplicatePair) {
			// Lost a race with a concurrent send; report whichever
			// direction won.
			if winner, ferr := s.requests.FindPendingBetween(ctx, sender, recipient); ferr == nil {
				return models.FriendRequest{}, duplicateRequestConflict(winner, sender)
			}
			return models.FriendRequest{}, apperr.Conflict("A friend request already exists between you and this user")
		}
		return models.FriendRequest{}, err
	}

	if _, err := s.notifs.Notify(ctx, models.NotificationFriendRequest, sender, recipient, request.Id, nil); err != nil {
		s.log.Warn("friend request notification failed",
			"request", request.Id.Hex(),
			"recipient", recipient.Hex(),
			"error", err)
	}

	return request, nil
}

// AcceptRequest moves the pair to friends. Only the recipient may accept.
// The request record is claimed atomically on its stored pending status,
// so a concurrent accept/reject/cancel resolves to exactly one winner;
// losers see Conflict. Everything after the claim is a compensating write
// that is safe to observe partially applied.
func (s *FriendService) AcceptRequest(ctx context.Context, requestId, actingUser primitive.ObjectID) error {
	request, err := s.requests.FindByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return apperr.NotFound("Friend request not found")
		}
		return err
	}
	if request.Recipient != actingUser {
		return apperr.Forbidden("Not authorized to accept this request")
	}

	claimed, err := s.requests.ClaimPending(ctx, requestId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return apperr.Conflict("This request has already been processed")
		}
		return err
	}

	// Set union on both sides: re-applying either write is a no-op.
	errSender := s.users.AddFriend(ctx, claimed.Sender, claimed.Recipient)
	errRecipient := s.users.AddFriend(ctx, claimed.Recipient, claimed.Sender)
	if errSender != nil || errRecipient != nil {
		s.log.Error("friend set update incomplete",
			"request", requestId.Hex(),
			"senderErr", errSender,
			"recipientErr", errRecipient)
		if errSender != nil {
			return fmt.Errorf("updating sender friend set: %w", errSender)
		}
		return fmt.Errorf("updating recipient friend set: %w", errRecipient)
	}

	if err := s.notifs.Retire(ctx, claimed.Id, claimed.Sender, claimed.Recipient); err != nil {
		s.log.Warn("retiring request notifications failed",
			"request", requestId.Hex(), "error", err)
	}

	if _, err := s.notifs.Notify(ctx, models.NotificationFriendRequestAccepted, claimed.Recipient, claimed.Sender, claimed.Id, nil); err != nil {
		s.log.Warn("acceptance notification failed",
			"request", requestId.Hex(),
			"recipient", claimed.Sender.Hex(),
			"error", err)
	}

	return nil
}

// RejectRequest removes the request and retires its notifications. Only
// the recipient may reject; no new notification is produced.
func (s *FriendService) RejectRequest(ctx context.Context, requestId, actingUser primitive.ObjectID) error {
	return s.resolveWithoutAccepting(ctx, requestId, actingUser, false)
}

// CancelRequest is the sender-side withdrawal of a pending request.
func (s *FriendService) CancelRequest(ctx context.Context, requestId, actingUser primitive.ObjectID) error {
	return s.resolveWithoutAccepting(ctx, requestId, actingUser, true)
}

func (s *FriendService) resolveWithoutAccepting(ctx context.Context, requestId, actingUser primitive.ObjectID, bySender bool) error {
	request, err := s.requests.FindByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return apperr.NotFound("Friend request not found")
		}
		return err
	}

	if bySender {
		if request.Sender != actingUser {
			return apperr.Forbidden("Not authorized to cancel this request")
		}
	} else {
		if request.Recipient != actingUser {
			return apperr.Forbidden("Not authorized to reject this request")
		}
	}

	claimed, err := s.requests.ClaimPending(ctx, requestId)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return apperr.Conflict("This request has already been processed")
		}
		return err
	}

	if err := s.notifs.Retire(ctx, claimed.Id, claimed.Sender, claimed.Recipient); err != nil {
		s.log.Warn("retiring request notifications failed",
			"request", requestId.Hex(), "error", err)
	}

	return nil
}

// RemoveFriendship dissolves an existing friendship and clears every
// request record for the pair, so the pair can cleanly re-enter the
// request flow later.
func (s *FriendService) RemoveFriendship(ctx context.Context, actingUser, target primitive.ObjectID) error {
	if actingUser == target {
		return apperr.InvalidOperation("You cannot remove yourself as a friend")
	}

	friendIds, err := s.users.FriendIDs(ctx, actingUser)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	isFriend := false
	for _, id := range friendIds {
		if id == target {
			isFriend = true
			break
		}
	}
	if !isFriend {
		return apperr.Conflict("You are not friends with this user")
	}

	// Set difference on both sides; safe to re-run after partial failure.
	errActor := s.users.RemoveFriend(ctx, actingUser, target)
	errTarget := s.users.RemoveFriend(ctx, target, actingUser)
	if errActor != nil && !errors.Is(errActor, stores.ErrNotFound) {
		return fmt.Errorf("removing friend from acting user: %w", errActor)
	}
	if errTarget != nil && !errors.Is(errTarget, stores.ErrNotFound) {
		return fmt.Errorf("removing friend from target user: %w", errTarget)
	}

	if err := s.requests.DeleteForPair(ctx, actingUser, target); err != nil {
		return fmt.Errorf("clearing request records for pair: %w", err)
	}

	return nil
}

// duplicateRequestConflict reports which side is responsible for the
// existing pending request, derived purely from the stored sender field.
func duplicateRequestConflict(existing models.FriendRequest, actingUser primitive.ObjectID) error {
	if existing.Sender == actingUser {
		return apperr.Conflict("You already sent a friend request to this user")
	}
	return apperr.Conflict("This user already sent you a friend request")
}
