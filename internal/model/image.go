package model

import "errors"

// Image is an uploaded picture embedded in its owner's user document.
// Likes holds liker user ids with set semantics: $addToSet on like, $pull on
// unlike, so an id appears at most once.
type Image struct {
	ID           string   `bson:"id" json:"id"`
	URL          string   `bson:"url" json:"url"`
	ThumbnailURL string   `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Description  string   `bson:"description" json:"description"`
	Likes        []string `bson:"likes" json:"likes"`
}

// DefaultImageDescription is attached to every upload; there is no caption
// field in the upload form.
const DefaultImageDescription = "Lorem Ipsum is simply dummy text of the printing and typesetting industry."

// UploadResult carries the stored image plus the outcome of the public-read
// ACL step. The upload itself can succeed while PublicAccessErr is non-nil;
// handlers report that case separately instead of discarding the image.
type UploadResult struct {
	Image           Image
	PublicAccessErr error
}

// ErrPostNotFound is returned when no user owns an image with the given id
var ErrPostNotFound = errors.New("post not found")
