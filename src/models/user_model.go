package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	Email      string               `json:"email" bson:"email"`
	Avatar     string               `json:"avatar" bson:"avatar"`
	CoverPhoto string               `json:"cover_photo" bson:"cover_photo"`
	Bio        string               `json:"bio" bson:"bio"`
	Location   string               `json:"location" bson:"location"`
	Friends    []primitive.ObjectID `json:"friends" bson:"friends"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

type UserDto struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Bio      string             `bson:"bio" json:"bio,omitempty"`
}

func (u User) Dto() UserDto {
	return UserDto{
		ID:       u.Id,
		Username: u.Username,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
}

// HasFriend reports whether otherId is in the user's friend set.
func (u User) HasFriend(otherId primitive.ObjectID) bool {
	for _, id := range u.Friends {
		if id == otherId {
			return true
		}
	}
	return false
}
