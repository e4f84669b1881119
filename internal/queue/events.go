package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the social stream
const (
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
)

// Stream names
const (
	StreamSocial = "stream:social"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// SocialEvent is an event published to the social stream after a follow-graph
// mutation commits. The worker turns these into notification documents.
type SocialEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	FollowerID   string `json:"follower_id"`
	FollowerName string `json:"follower_name"`
	FolloweeID   string `json:"followee_id"`
}

// NewUserFollowedEvent records that follower began following followee.
func NewUserFollowedEvent(followerID, followerName, followeeID string) SocialEvent {
	return SocialEvent{
		Type:         EventUserFollowed,
		Timestamp:    time.Now().Unix(),
		FollowerID:   followerID,
		FollowerName: followerName,
		FolloweeID:   followeeID,
	}
}

// NewUserUnfollowedEvent records that follower stopped following followee.
func NewUserUnfollowedEvent(followerID, followerName, followeeID string) SocialEvent {
	return SocialEvent{
		Type:         EventUserUnfollowed,
		Timestamp:    time.Now().Unix(),
		FollowerID:   followerID,
		FollowerName: followerName,
		FolloweeID:   followeeID,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store field-value
// pairs, so the event body travels JSON-encoded in a "data" field.
func (e SocialEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseSocialEvent parses a SocialEvent from Redis stream message values.
func ParseSocialEvent(values map[string]interface{}) (SocialEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return SocialEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event SocialEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return SocialEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
