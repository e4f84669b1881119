package repository

import (
	"context"
	"time"

	"picstream/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Directory reads apply the sensitive-field projection.
	List(ctx context.Context, username string) ([]model.User, error)
	GetProjectedByID(ctx context.Context, id string) (*model.User, error)
	SearchUsernames(ctx context.Context, query string, limit int) ([]model.UsernameSuggestion, error)

	// Follow-edge writes. Each mutates one side of the relationship; the
	// follow service pairs them.
	PushFollower(ctx context.Context, userID string, edge model.FollowEdge) error
	PullFollower(ctx context.Context, userID string, edge model.FollowEdge) error
	PushFollowing(ctx context.Context, userID string, edge model.FollowEdge) error
	PullFollowing(ctx context.Context, userID string, edge model.FollowEdge) error

	SetResetToken(ctx context.Context, userID string, tokenHash string, expire time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID string, hashedPassword string) error
}

type ImageRepository interface {
	// Append adds an image to the owning user's embedded list.
	Append(ctx context.Context, userID string, image model.Image) error

	// Like adds likerID to the image's liker set and returns the owning
	// user's updated image list. Unlike removes it; unliking a non-liker is
	// a no-op.
	Like(ctx context.Context, postID, likerID string) ([]model.Image, error)
	Unlike(ctx context.Context, postID, likerID string) ([]model.Image, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// DeleteFollow removes the follow notification a given actor produced
	// for a recipient, if any. Used when the follow is undone.
	DeleteFollow(ctx context.Context, userID, actorID string) error
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
}
