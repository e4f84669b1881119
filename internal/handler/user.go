package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"picstream/internal/httputil"
	"picstream/internal/model"
	"picstream/internal/service"
)

// Error codes for user endpoints
const (
	codeListUsers    = "USER001"
	codeGetUser      = "USER002"
	codeSuggestUsers = "USER003"
)

type UserHandler struct {
	userService   *service.UserService
	followService *service.FollowService
}

func NewUserHandler(userService *service.UserService, followService *service.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// List handles GET /api/users
// Query params: username (filter), exact (true/false/absent). exact=false
// switches to autocomplete suggestions of at most ten username-only matches.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	exact := r.URL.Query().Get("exact")

	if exact == "false" {
		if username == "" {
			httputil.WriteData(w, http.StatusOK, "No username specified", []model.UsernameSuggestion{})
			return
		}

		suggestions, err := h.userService.Suggest(r.Context(), username)
		if err != nil {
			log.Printf("[ERROR] List handler (suggest): %v", err)
			httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error getting suggested users from MongoDB", codeSuggestUsers, err)
			return
		}

		httputil.WriteData(w, http.StatusOK, "Successfully retrieved suggested users from MongoDB", suggestions)
		return
	}

	users, err := h.userService.List(r.Context(), username)
	if err != nil {
		log.Printf("[ERROR] List handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error getting all users from MongoDB", codeListUsers, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Successfully retrieved all users", users)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteErrorCode(w, http.StatusNotFound, "Error getting user from MongoDB", codeGetUser, err)
			return
		}
		log.Printf("[ERROR] Get handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error getting user from MongoDB", codeGetUser, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Successfully retrieved user", user)
}

// Edit handles PUT /api/users/{id}
// The path id names the target of the action; the body id the acting user.
// The action string is parsed once into a typed EditAction and matched
// exhaustively.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if _, err := primitive.ObjectIDFromHex(targetID); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req model.EditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action, err := model.ParseEditAction(req.Action)
	if err != nil {
		httputil.WriteData(w, http.StatusBadRequest, "Invalid Edit Request (Follow / Unfollow)", map[string]string{
			"request": req.Action,
		})
		return
	}

	switch action {
	case model.ActionFollow:
		h.follow(w, r, targetID, req.ID)
	case model.ActionUnfollow:
		h.unfollow(w, r, targetID, req.ID)
	}
}

func (h *UserHandler) follow(w http.ResponseWriter, r *http.Request, targetID, actorID string) {
	if err := h.followService.Follow(r.Context(), targetID, actorID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteError(w, http.StatusForbidden, "You can't follow yourself")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteError(w, http.StatusForbidden, "you already follow this user")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteError(w, http.StatusNotFound, "No user found with this id.")
		default:
			log.Printf("[ERROR] Edit handler (follow): %v", err)
			httputil.WriteError(w, http.StatusInternalServerError, "Error getting user from MongoDB")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "user has been followed")
}

func (h *UserHandler) unfollow(w http.ResponseWriter, r *http.Request, targetID, actorID string) {
	if err := h.followService.Unfollow(r.Context(), targetID, actorID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotUnfollowSelf):
			httputil.WriteError(w, http.StatusForbidden, "You can't unfollow yourself")
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteError(w, http.StatusForbidden, "You don't follow this user")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteError(w, http.StatusNotFound, "No user found with this id.")
		default:
			log.Printf("[ERROR] Edit handler (unfollow): %v", err)
			httputil.WriteError(w, http.StatusInternalServerError, "Error getting user from MongoDB")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "user has been unfollowed")
}
