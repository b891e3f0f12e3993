package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/apperr"
	"github.com/socialite-app/backend/src/models"
	"github.com/socialite-app/backend/src/stores"
)

const unreadCacheTTL = 30 * time.Second

// NotificationService is the fan-out engine: it decides whether a domain
// event warrants a notification, persists it, and retires notifications
// whose triggering condition no longer holds. Every event producer goes
// through Notify, so the self-notification rule cannot be bypassed.
type NotificationService struct {
	users  stores.UserStore
	notifs stores.NotificationStore
	cache  *redis.Client
	log    *slog.Logger
}

// NewNotificationService wires the engine. cache may be nil, in which
// case unread counts always hit the store.
func NewNotificationService(users stores.UserStore, notifs stores.NotificationStore, cache *redis.Client, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		users:  users,
		notifs: notifs,
		cache:  cache,
		log:    logger,
	}
}

// Notify persists a single notification. A self-targeted event is a
// silent no-op, not an error: the caller triggered a legitimate action
// that simply has nobody to tell.
func (s *NotificationService) Notify(ctx context.Context, typ models.NotificationType, sender, recipient, reference primitive.ObjectID, extra map[string]interface{}) (*models.Notification, error) {
	if sender == recipient {
		return nil, nil
	}

	if _, err := s.users.FindByID(ctx, sender); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, apperr.NotFound("Sender not found")
		}
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, recipient); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, apperr.NotFound("Recipient not found")
		}
		return nil, err
	}

	now := time.Now()
	notification := models.Notification{
		Id:             primitive.NewObjectID(),
		Type:           typ,
		Sender:         sender,
		Recipient:      recipient,
		Reference:      reference,
		Read:           false,
		AdditionalData: extra,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.notifs.Insert(ctx, notification); err != nil {
		return nil, err
	}

	s.invalidateUnread(ctx, recipient)
	return &notification, nil
}

// Retire bulk-deletes every notification referencing the given record,
// regardless of direction. Invoked by the lifecycle manager when the
// triggering request is resolved; the notifications are no longer
// actionable and must disappear rather than linger as read.
func (s *NotificationService) Retire(ctx context.Context, reference primitive.ObjectID, parties ...primitive.ObjectID) error {
	deleted, err := s.notifs.DeleteByReference(ctx, reference)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.invalidateUnread(ctx, parties...)
	}
	return nil
}

// PostCreated fans out one notification per friend of the author. The
// friend set is snapshotted once, at creation time; later changes to it
// do not revisit the batch. A failed insert is logged and skipped, never
// rolled back: each delivered notification is independently useful.
func (s *NotificationService) PostCreated(ctx context.Context, author, postId primitive.ObjectID) (int, error) {
	friendIds, err := s.users.FriendIDs(ctx, author)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return 0, apperr.NotFound("User not found")
		}
		return 0, err
	}

	batchId := uuid.NewString()
	extra := map[string]interface{}{"batchId": batchId}

	created := 0
	for _, friendId := range friendIds {
		if _, err := s.Notify(ctx, models.NotificationPostCreated, author, friendId, postId, extra); err != nil {
			s.log.Warn("post fan-out delivery failed",
				"batchId", batchId,
				"post", postId.Hex(),
				"recipient", friendId.Hex(),
				"error", err)
			continue
		}
		created++
	}

	s.log.Info("post fan-out complete",
		"batchId", batchId,
		"post", postId.Hex(),
		"recipients", len(friendIds),
		"created", created)
	return created, nil
}

func (s *NotificationService) PostLiked(ctx context.Context, liker, author, postId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationPostLike, liker, author, postId, nil)
	return err
}

func (s *NotificationService) PostCommented(ctx context.Context, commenter, author, postId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationPostComment, commenter, author, postId, nil)
	return err
}

func (s *NotificationService) PostTagged(ctx context.Context, tagger, tagged, postId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationPostTag, tagger, tagged, postId, nil)
	return err
}

func (s *NotificationService) CommentLiked(ctx context.Context, liker, author, postId primitive.ObjectID, commentId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationCommentLike, liker, author, postId,
		map[string]interface{}{"commentId": commentId.Hex()})
	return err
}

func (s *NotificationService) CommentMentioned(ctx context.Context, author, mentioned, postId primitive.ObjectID, commentId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationCommentMention, author, mentioned, postId,
		map[string]interface{}{"commentId": commentId.Hex()})
	return err
}

func (s *NotificationService) CommentReplied(ctx context.Context, replier, parentAuthor, postId primitive.ObjectID, commentId primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationCommentReply, replier, parentAuthor, postId,
		map[string]interface{}{"commentId": commentId.Hex()})
	return err
}

func (s *NotificationService) ProfilePhotoUpdated(ctx context.Context, user, viewer primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationProfilePhotoUpdated, user, viewer, user, nil)
	return err
}

func (s *NotificationService) CoverPhotoUpdated(ctx context.Context, user, viewer primitive.ObjectID) error {
	_, err := s.Notify(ctx, models.NotificationCoverPhotoUpdated, user, viewer, user, nil)
	return err
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userId primitive.ObjectID) ([]models.Notification, error) {
	return s.notifs.ListForRecipient(ctx, userId)
}

// MarkRead flips the read flag. The transition is monotonic and
// idempotent: re-marking an already-read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, id, userId primitive.ObjectID) (models.Notification, error) {
	updated, err := s.notifs.MarkRead(ctx, id, userId)
	if errors.Is(err, stores.ErrNotFound) {
		return models.Notification{}, apperr.NotFound("Notification not found")
	}
	if err != nil {
		return models.Notification{}, err
	}
	s.invalidateUnread(ctx, userId)
	return updated, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userId primitive.ObjectID) (int64, error) {
	updated, err := s.notifs.MarkAllRead(ctx, userId)
	if err != nil {
		return 0, err
	}
	s.invalidateUnread(ctx, userId)
	return updated, nil
}

func (s *NotificationService) Delete(ctx context.Context, id, userId primitive.ObjectID) error {
	err := s.notifs.DeleteByID(ctx, id, userId)
	if errors.Is(err, stores.ErrNotFound) {
		return apperr.NotFound("Notification not found")
	}
	if err != nil {
		return err
	}
	s.invalidateUnread(ctx, userId)
	return nil
}

// UnreadCount serves from the Redis cache when it is warm, falling back
// to a store count. Writes invalidate, so staleness is bounded by the TTL
// only when invalidation itself fails.
func (s *NotificationService) UnreadCount(ctx context.Context, userId primitive.ObjectID) (int64, error) {
	key := unreadKey(userId)
	if s.cache != nil {
		if count, err := s.cache.Get(ctx, key).Int64(); err == nil {
			return count, nil
		}
	}

	count, err := s.notifs.CountUnread(ctx, userId)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			s.log.Warn("unread cache set failed", "user", userId.Hex(), "error", err)
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userIds ...primitive.ObjectID) {
	if s.cache == nil || len(userIds) == 0 {
		return
	}
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, unreadKey(id))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("unread cache invalidation failed", "error", err)
	}
}

func unreadKey(userId primitive.ObjectID) string {
	return "unread:" + userId.Hex()
}
