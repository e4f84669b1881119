package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"picstream/internal/model"
)

// userProjection excludes sensitive fields from directory reads.
var userProjection = bson.M{
	"password":            0,
	"email":               0,
	"createdAt":           0,
	"updatedAt":           0,
	"resetPasswordToken":  0,
	"resetPasswordExpire": 0,
}

// userRepository implements UserRepository on a mongo collection
type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(coll *mongo.Collection) UserRepository {
	return &userRepository{coll: coll}
}

// Create inserts a new user document
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Images == nil {
		u.Images = []model.Image{}
	}
	if u.Followers == nil {
		u.Followers = []model.FollowEdge{}
	}
	if u.Followings == nil {
		u.Followings = []model.FollowEdge{}
	}

	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		// The unique indexes back up the service-level existence checks;
		// a concurrent register can still hit them.
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// GetByID retrieves a full user document by hex id
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	var u model.User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a full user document by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a full user document by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByEmail checks if an email is already taken
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// List returns users with the sensitive-field projection applied. An empty
// username returns every user; otherwise the filter is an exact match.
func (r *userRepository) List(ctx context.Context, username string) ([]model.User, error) {
	filter := bson.M{}
	if username != "" {
		filter["username"] = username
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(userProjection))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// GetProjectedByID retrieves a user by id with the sensitive-field projection.
func (r *userRepository) GetProjectedByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	var u model.User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(userProjection)).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// SearchUsernames runs the Atlas Search autocomplete aggregation over the
// indexed username field, returning username-only matches.
func (r *userRepository) SearchUsernames(ctx context.Context, query string, limit int) ([]model.UsernameSuggestion, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.M{
			"autocomplete": bson.M{
				"path":  "username",
				"query": query,
			},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"username": 1,
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search usernames: %w", err)
	}
	defer cursor.Close(ctx)

	suggestions := []model.UsernameSuggestion{}
	if err := cursor.All(ctx, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	return suggestions, nil
}

func (r *userRepository) PushFollower(ctx context.Context, userID string, edge model.FollowEdge) error {
	return r.updateEdge(ctx, userID, bson.M{"$push": bson.M{"followers": edge}}, "push follower")
}

func (r *userRepository) PullFollower(ctx context.Context, userID string, edge model.FollowEdge) error {
	return r.updateEdge(ctx, userID, bson.M{"$pull": bson.M{"followers": bson.M{"id": edge.ID, "username": edge.Username}}}, "pull follower")
}

func (r *userRepository) PushFollowing(ctx context.Context, userID string, edge model.FollowEdge) error {
	return r.updateEdge(ctx, userID, bson.M{"$push": bson.M{"followings": edge}}, "push following")
}

func (r *userRepository) PullFollowing(ctx context.Context, userID string, edge model.FollowEdge) error {
	return r.updateEdge(ctx, userID, bson.M{"$pull": bson.M{"followings": bson.M{"id": edge.ID, "username": edge.Username}}}, "pull following")
}

func (r *userRepository) updateEdge(ctx context.Context, userID string, update bson.M, op string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID string, tokenHash string, expire time.Time) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": expire,
		"updatedAt":           time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// FindByResetToken resolves a reset token hash that has not expired.
func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	filter := bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}

	var u model.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}

	return &u, nil
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *userRepository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$set":   bson.M{"password": hashedPassword, "updatedAt": time.Now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
