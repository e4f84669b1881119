package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"picstream/internal/model"
)

type imageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(coll *mongo.Collection) ImageRepository {
	return &imageRepository{coll: coll}
}

func (r *imageRepository) Append(ctx context.Context, userID string, image model.Image) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$push": bson.M{"images": image}})
	if err != nil {
		return fmt.Errorf("failed to append image: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Like adds the liker to the image's liker set. $addToSet keeps the set
// semantics: a second like by the same user changes nothing. The filtered
// positional operator targets the embedded image by id inside whichever user
// document owns it. Returns the owning user's updated image list.
func (r *imageRepository) Like(ctx context.Context, postID, likerID string) ([]model.Image, error) {
	update := bson.M{"$addToSet": bson.M{"images.$[img].likes": likerID}}
	return r.applyLikeUpdate(ctx, postID, update, "like post")
}

// Unlike removes the liker from the image's liker set. Pulling an absent
// liker matches the document but changes nothing, so it is a no-op rather
// than an error.
func (r *imageRepository) Unlike(ctx context.Context, postID, likerID string) ([]model.Image, error) {
	update := bson.M{"$pull": bson.M{"images.$[img].likes": likerID}}
	return r.applyLikeUpdate(ctx, postID, update, "unlike post")
}

func (r *imageRepository) applyLikeUpdate(ctx context.Context, postID string, update bson.M, op string) ([]model.Image, error) {
	filter := bson.M{"images.id": postID}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"img.id": postID}},
		}).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"images": 1})

	var owner model.User
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return owner.Images, nil
}
