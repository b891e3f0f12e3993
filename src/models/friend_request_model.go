package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequest struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	// PairKey is the direction-agnostic identity of the pair. A unique
	// index on it guarantees at most one stored request per pair, since
	// requests are deleted the moment they leave pending.
	PairKey   string        `json:"-" bson:"pairKey"`
	Status    RequestStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// PairKey returns the canonical key for an unordered user pair: the two
// hex ids joined in lexical order, so both directions map to the same key.
func PairKey(a, b primitive.ObjectID) string {
	ha, hb := a.Hex(), b.Hex()
	if strings.Compare(ha, hb) > 0 {
		ha, hb = hb, ha
	}
	return ha + ":" + hb
}

// Other returns the counterpart of userId in the request pair.
func (r FriendRequest) Other(userId primitive.ObjectID) primitive.ObjectID {
	if r.Sender == userId {
		return r.Recipient
	}
	return r.Sender
}
