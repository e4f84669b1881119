package worker

import (
	"context"
	"fmt"
	"log"

	"picstream/internal/model"
	"picstream/internal/queue"
)

// NotificationStore is the slice of the notification repository the worker
// needs. Keeps the worker independent of the full repository package surface.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	DeleteFollow(ctx context.Context, userID, actorID string) error
}

// Handler turns social events from the stream into notification documents.
type Handler struct {
	store NotificationStore
}

// NewHandler creates a new event handler.
func NewHandler(store NotificationStore) *Handler {
	return &Handler{store: store}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.SocialEvent) error {
	switch event.Type {
	case queue.EventUserFollowed:
		return h.handleUserFollowed(ctx, event)
	case queue.EventUserUnfollowed:
		return h.handleUserUnfollowed(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handleUserFollowed records a follow notification for the followee.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.SocialEvent) error {
	n := &model.Notification{
		UserID:    event.FolloweeID,
		ActorID:   event.FollowerID,
		ActorName: event.FollowerName,
		Type:      model.NotificationFollow,
	}

	if err := h.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create follow notification: %w", err)
	}

	log.Printf("[Worker] UserFollowed: follower=%s followee=%s notified", event.FollowerID, event.FolloweeID)
	return nil
}

// handleUserUnfollowed withdraws the follow notification, if it still exists.
func (h *Handler) handleUserUnfollowed(ctx context.Context, event queue.SocialEvent) error {
	if err := h.store.DeleteFollow(ctx, event.FolloweeID, event.FollowerID); err != nil {
		return fmt.Errorf("delete follow notification: %w", err)
	}

	log.Printf("[Worker] UserUnfollowed: follower=%s followee=%s notification withdrawn", event.FollowerID, event.FolloweeID)
	return nil
}
