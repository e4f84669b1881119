package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"picstream/internal/model"
	"picstream/internal/repository"
)

// ObjectStorage is the slice of MediaService the image flow needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
	MakePublic(ctx context.Context, key string) error
	Thumbnail(data []byte) ([]byte, error)
}

// ImageService handles uploads and like/unlike mutations on embedded images.
type ImageService struct {
	imageRepo repository.ImageRepository
	storage   ObjectStorage
}

func NewImageService(imageRepo repository.ImageRepository, storage ObjectStorage) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		storage:   storage,
	}
}

// Upload stores the file, records the image on the uploading user, and then
// applies the public-read ACL. The object key is the image id plus the
// original filename, so two uploads of the same filename never collide. An
// ACL failure is reported through UploadResult.PublicAccessErr while the
// upload itself still counts as successful.
func (s *ImageService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*model.UploadResult, error) {
	imageID := uuid.NewString()
	key := fmt.Sprintf("%s-%s", imageID, filename)

	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	image := model.Image{
		ID:          imageID,
		URL:         url,
		Description: model.DefaultImageDescription,
		Likes:       []string{},
	}

	// Thumbnails are best-effort: files that don't decode as images are
	// stored as-is without one.
	if thumb, err := s.storage.Thumbnail(data); err == nil {
		thumbURL, err := s.storage.Upload(ctx, ThumbnailKey(imageID), thumb, "image/jpeg")
		if err != nil {
			log.Printf("[ImageService] Failed to store thumbnail: image=%s err=%v", imageID, err)
		} else {
			image.ThumbnailURL = thumbURL
		}
	}

	if err := s.imageRepo.Append(ctx, userID, image); err != nil {
		return nil, err
	}

	result := &model.UploadResult{Image: image}
	if err := s.storage.MakePublic(ctx, key); err != nil {
		result.PublicAccessErr = err
	}

	return result, nil
}

// Like adds the actor to the post's liker set; liking twice is rejected by
// the set semantics, not by an error. Returns the owning user's image list.
func (s *ImageService) Like(ctx context.Context, postID, userID string) ([]model.Image, error) {
	return s.imageRepo.Like(ctx, postID, userID)
}

// Unlike removes the actor from the post's liker set; unliking a non-liker
// is a no-op. Returns the owning user's image list.
func (s *ImageService) Unlike(ctx context.Context, postID, userID string) ([]model.Image, error) {
	return s.imageRepo.Unlike(ctx, postID, userID)
}
