package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"picstream/internal/model"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockImageRepository struct {
	appendFn func(ctx context.Context, userID string, img model.Image) error
	likeFn   func(ctx context.Context, postID, userID string) ([]model.Image, error)
	unlikeFn func(ctx context.Context, postID, userID string) ([]model.Image, error)

	appended []model.Image
}

func (m *mockImageRepository) Append(ctx context.Context, userID string, img model.Image) error {
	m.appended = append(m.appended, img)
	if m.appendFn != nil {
		return m.appendFn(ctx, userID, img)
	}
	return nil
}

func (m *mockImageRepository) Like(ctx context.Context, postID, userID string) ([]model.Image, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockImageRepository) Unlike(ctx context.Context, postID, userID string) ([]model.Image, error) {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return nil, model.ErrPostNotFound
}

type storedObject struct {
	Key         string
	ContentType string
	Size        int
}

type mockStorage struct {
	uploadFn     func(ctx context.Context, key string, body []byte, contentType string) (string, error)
	makePublicFn func(ctx context.Context, key string) error
	thumbnailFn  func(data []byte) ([]byte, error)

	uploads    []storedObject
	madePublic []string
}

func (m *mockStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	m.uploads = append(m.uploads, storedObject{Key: key, ContentType: contentType, Size: len(body)})
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, body, contentType)
	}
	return "https://cdn.example.com/" + key, nil
}

func (m *mockStorage) MakePublic(ctx context.Context, key string) error {
	m.madePublic = append(m.madePublic, key)
	if m.makePublicFn != nil {
		return m.makePublicFn(ctx, key)
	}
	return nil
}

func (m *mockStorage) Thumbnail(data []byte) ([]byte, error) {
	if m.thumbnailFn != nil {
		return m.thumbnailFn(data)
	}
	return nil, errors.New("not an image")
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestImageService_Upload_Success(t *testing.T) {
	repo := &mockImageRepository{}
	storage := &mockStorage{}
	svc := NewImageService(repo, storage)

	result, err := svc.Upload(context.Background(), "id-alice", "cat.png", "image/png", []byte("not-really-png"))
	if err != nil {
		t.Fatalf("Upload() error = %v, want nil", err)
	}

	img := result.Image
	if img.ID == "" {
		t.Error("image id must be generated server-side")
	}
	if !strings.HasSuffix(img.URL, "-cat.png") {
		t.Errorf("image URL = %q, want the original filename preserved", img.URL)
	}
	if img.Description != model.DefaultImageDescription {
		t.Errorf("description = %q, want the default placeholder", img.Description)
	}
	if img.Likes == nil || len(img.Likes) != 0 {
		t.Errorf("likes = %v, want non-nil empty", img.Likes)
	}
	if result.PublicAccessErr != nil {
		t.Errorf("PublicAccessErr = %v, want nil", result.PublicAccessErr)
	}

	if len(storage.uploads) != 1 {
		t.Fatalf("stored %d objects, want 1", len(storage.uploads))
	}
	wantKey := img.ID + "-cat.png"
	if storage.uploads[0].Key != wantKey {
		t.Errorf("object key = %q, want %q", storage.uploads[0].Key, wantKey)
	}
	if len(storage.madePublic) != 1 || storage.madePublic[0] != wantKey {
		t.Errorf("MakePublic keys = %v, want [%s]", storage.madePublic, wantKey)
	}
	if len(repo.appended) != 1 || repo.appended[0].ID != img.ID {
		t.Errorf("appended images = %v, want the uploaded image", repo.appended)
	}
}

func TestImageService_Upload_KeysNeverCollide(t *testing.T) {
	storage := &mockStorage{}
	svc := NewImageService(&mockImageRepository{}, storage)

	for i := 0; i < 2; i++ {
		if _, err := svc.Upload(context.Background(), "id-alice", "cat.png", "image/png", []byte("data")); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}

	if storage.uploads[0].Key == storage.uploads[1].Key {
		t.Errorf("two uploads of %q produced the same key %q", "cat.png", storage.uploads[0].Key)
	}
}

func TestImageService_Upload_StorageError(t *testing.T) {
	repo := &mockImageRepository{}
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, body []byte, contentType string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}
	svc := NewImageService(repo, storage)

	_, err := svc.Upload(context.Background(), "id-alice", "cat.png", "image/png", []byte("data"))
	if err == nil {
		t.Fatal("Upload() error = nil, want storage error")
	}
	if len(repo.appended) != 0 {
		t.Error("nothing must be recorded when the object store write fails")
	}
}

func TestImageService_Upload_UserNotFound(t *testing.T) {
	repo := &mockImageRepository{
		appendFn: func(ctx context.Context, userID string, img model.Image) error {
			return model.ErrUserNotFound
		},
	}
	svc := NewImageService(repo, &mockStorage{})

	_, err := svc.Upload(context.Background(), "id-ghost", "cat.png", "image/png", []byte("data"))
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("Upload() error = %v, want ErrUserNotFound", err)
	}
}

func TestImageService_Upload_ACLFailureStillSucceeds(t *testing.T) {
	aclErr := errors.New("AccessDenied")
	repo := &mockImageRepository{}
	storage := &mockStorage{
		makePublicFn: func(ctx context.Context, key string) error {
			return aclErr
		},
	}
	svc := NewImageService(repo, storage)

	result, err := svc.Upload(context.Background(), "id-alice", "cat.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("Upload() error = %v, want nil when only the ACL fails", err)
	}
	if !errors.Is(result.PublicAccessErr, aclErr) {
		t.Errorf("PublicAccessErr = %v, want %v", result.PublicAccessErr, aclErr)
	}
	if len(repo.appended) != 1 {
		t.Error("the image must still be recorded when the ACL fails")
	}
	if result.Image.URL == "" {
		t.Error("the URL must still be reported when the ACL fails")
	}
}

func TestImageService_Upload_ThumbnailBestEffort(t *testing.T) {
	storage := &mockStorage{
		thumbnailFn: func(data []byte) ([]byte, error) {
			return []byte("tiny"), nil
		},
	}
	repo := &mockImageRepository{}
	svc := NewImageService(repo, storage)

	result, err := svc.Upload(context.Background(), "id-alice", "cat.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("Upload() error = %v, want nil", err)
	}

	if len(storage.uploads) != 2 {
		t.Fatalf("stored %d objects, want original plus thumbnail", len(storage.uploads))
	}
	wantThumbKey := ThumbnailKey(result.Image.ID)
	if storage.uploads[1].Key != wantThumbKey {
		t.Errorf("thumbnail key = %q, want %q", storage.uploads[1].Key, wantThumbKey)
	}
	if result.Image.ThumbnailURL == "" {
		t.Error("ThumbnailURL must be set when the thumbnail is stored")
	}
	// Only the original gets the public ACL; thumbnails are served as stored.
	if len(storage.madePublic) != 1 {
		t.Errorf("MakePublic called %d times, want 1", len(storage.madePublic))
	}
}

// =============================================================================
// LIKE / UNLIKE
// =============================================================================

// likeStore mimics the store's set semantics on a single embedded image list.
type likeStore struct {
	images []model.Image
}

func (s *likeStore) apply(postID, userID string, add bool) ([]model.Image, error) {
	for i := range s.images {
		if s.images[i].ID != postID {
			continue
		}
		likes := s.images[i].Likes
		idx := -1
		for j, id := range likes {
			if id == userID {
				idx = j
				break
			}
		}
		if add && idx == -1 {
			s.images[i].Likes = append(likes, userID)
		}
		if !add && idx != -1 {
			s.images[i].Likes = append(likes[:idx], likes[idx+1:]...)
		}
		return s.images, nil
	}
	return nil, model.ErrPostNotFound
}

func TestImageService_LikeUnlike_SetSemantics(t *testing.T) {
	store := &likeStore{images: []model.Image{{ID: "post-1", Likes: []string{}}}}
	repo := &mockImageRepository{
		likeFn: func(ctx context.Context, postID, userID string) ([]model.Image, error) {
			return store.apply(postID, userID, true)
		},
		unlikeFn: func(ctx context.Context, postID, userID string) ([]model.Image, error) {
			return store.apply(postID, userID, false)
		},
	}
	svc := NewImageService(repo, &mockStorage{})
	ctx := context.Background()

	// Liking twice leaves exactly one entry.
	if _, err := svc.Like(ctx, "post-1", "id-alice"); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	images, err := svc.Like(ctx, "post-1", "id-alice")
	if err != nil {
		t.Fatalf("second Like() error = %v, want nil (idempotent)", err)
	}
	if len(images[0].Likes) != 1 {
		t.Errorf("likes after double-like = %v, want exactly one entry", images[0].Likes)
	}

	// Unliking a non-liker is a no-op.
	images, err = svc.Unlike(ctx, "post-1", "id-bob")
	if err != nil {
		t.Fatalf("Unlike() by non-liker error = %v, want nil", err)
	}
	if len(images[0].Likes) != 1 {
		t.Errorf("likes after non-liker unlike = %v, want unchanged", images[0].Likes)
	}

	// Unliking the liker empties the set.
	images, err = svc.Unlike(ctx, "post-1", "id-alice")
	if err != nil {
		t.Fatalf("Unlike() error = %v", err)
	}
	if len(images[0].Likes) != 0 {
		t.Errorf("likes after unlike = %v, want empty", images[0].Likes)
	}
}

func TestImageService_Like_PostNotFound(t *testing.T) {
	svc := NewImageService(&mockImageRepository{}, &mockStorage{})

	if _, err := svc.Like(context.Background(), "missing", "id-alice"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("Like() error = %v, want ErrPostNotFound", err)
	}
	if _, err := svc.Unlike(context.Background(), "missing", "id-alice"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("Unlike() error = %v, want ErrPostNotFound", err)
	}
}

// =============================================================================
// THUMBNAILS
// =============================================================================

func TestMediaService_Thumbnail(t *testing.T) {
	svc := &MediaService{}

	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("failed to encode fixture image: %v", err)
	}

	thumb, err := svc.Thumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("Thumbnail() error = %v, want nil", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	if got := decoded.Bounds().Dx(); got != thumbnailWidth {
		t.Errorf("thumbnail width = %d, want %d", got, thumbnailWidth)
	}

	if _, err := svc.Thumbnail([]byte("not an image")); err == nil {
		t.Error("Thumbnail() on garbage bytes should fail")
	}
}
