package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationFollow = "follow"
)

// Notification records a social event for a recipient. Written by the queue
// worker, never in the request path.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	ActorID   string             `bson:"actorId" json:"actorId"`
	ActorName string             `bson:"actorName" json:"actorName"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
