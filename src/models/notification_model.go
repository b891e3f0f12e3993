package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type      NotificationType   `json:"type" bson:"type"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	// Reference points at the record that triggered the notification: a
	// friend request, a post or a user, depending on Type.
	Reference      primitive.ObjectID     `json:"reference,omitempty" bson:"reference,omitempty"`
	Read           bool                   `json:"read" bson:"read"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty" bson:"additionalData,omitempty"`
	CreatedAt      time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time              `bson:"updatedAt" json:"updatedAt"`
}

type NotificationType string

const (
	NotificationFriendRequest         NotificationType = "FRIEND_REQUEST"
	NotificationFriendRequestAccepted NotificationType = "FRIEND_REQUEST_ACCEPTED"
	NotificationPostLike              NotificationType = "POST_LIKE"
	NotificationPostComment           NotificationType = "POST_COMMENT"
	NotificationPostCreated           NotificationType = "POST_CREATED"
	NotificationPostTag               NotificationType = "POST_TAG"
	NotificationProfilePhotoUpdated   NotificationType = "PROFILE_PHOTO_UPDATED"
	NotificationCoverPhotoUpdated     NotificationType = "COVER_PHOTO_UPDATED"
	NotificationCommentLike           NotificationType = "COMMENT_LIKE"
	NotificationCommentMention        NotificationType = "COMMENT_MENTION"
	NotificationCommentReply          NotificationType = "COMMENT_REPLY"
)
