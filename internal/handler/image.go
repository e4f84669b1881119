package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"picstream/internal/httputil"
	"picstream/internal/model"
	"picstream/internal/service"
)

// Error codes for image endpoints
const (
	codeUploadImage = "IMG001"
	codeLikePost    = "IMG002"
	codeUnlikePost  = "IMG003"
)

// MaxUploadSize caps image uploads at 10MB.
const MaxUploadSize = 10 << 20

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Upload handles POST /api/{userid}/images
// Accepts a single multipart file under the "file" field.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userid")
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			httputil.WriteError(w, http.StatusBadRequest, "Please upload a file!")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Could not read the file", codeUploadImage, err)
		return
	}

	result, err := h.imageService.Upload(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "No user found with this id.")
			return
		}
		log.Printf("[ERROR] Upload handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError,
			fmt.Sprintf("Could not upload the file: %s", header.Filename), codeUploadImage, err)
		return
	}

	// The file is stored and recorded even when the ACL step fails; report
	// that case distinctly so the client knows the object is not public.
	if result.PublicAccessErr != nil {
		log.Printf("[ERROR] Upload handler (acl): %v", result.PublicAccessErr)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": fmt.Sprintf("Uploaded the file successfully: %s, but public access is denied!", header.Filename),
			"url":     result.Image.URL,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Uploaded the file successfully: " + header.Filename,
		"image":   result.Image,
	})
}

// Like handles PUT /api/posts/{postid}/likes/{userid}
// Responds with the owning user's updated image list.
func (h *ImageHandler) Like(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postid")
	userID := chi.URLParam(r, "userid")

	images, err := h.imageService.Like(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteErrorCode(w, http.StatusNotFound, "Error liking post", codeLikePost, err)
			return
		}
		log.Printf("[ERROR] Like handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error liking post", codeLikePost, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Successfully liked post", images)
}

// Unlike handles DELETE /api/posts/{postid}/likes/{userid}
// Unliking a post the user never liked is a no-op, not an error.
func (h *ImageHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postid")
	userID := chi.URLParam(r, "userid")

	images, err := h.imageService.Unlike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteErrorCode(w, http.StatusNotFound, "Error unliking post", codeUnlikePost, err)
			return
		}
		log.Printf("[ERROR] Unlike handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error unliking post", codeUnlikePost, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Successfully disliked post", images)
}
