package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"picstream/internal/model"
)

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(coll *mongo.Collection) NotificationRepository {
	return &notificationRepository{coll: coll}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) DeleteFollow(ctx context.Context, userID, actorID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{
		"userId":  userID,
		"actorId": actorID,
		"type":    model.NotificationFollow,
	})
	if err != nil {
		return fmt.Errorf("failed to delete follow notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []model.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}
