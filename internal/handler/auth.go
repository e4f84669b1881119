package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"picstream/internal/httputil"
	"picstream/internal/model"
	"picstream/internal/service"
)

// Error codes for auth endpoints
const (
	codeRegister       = "AUTH001"
	codeLogin          = "AUTH002"
	codeForgotPassword = "AUTH003"
	codeResetPassword  = "AUTH004"
)

// AuthHandler groups registration, login and password-reset endpoints.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Register handles POST /api/users/register
// Body: {username, email, password}. Responds {token} or {errors}.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Same rules the signup form declares; the server never trusts the
	// client's schema alone.
	if errs := model.ValidateRegistration(&req); errs != nil {
		httputil.WriteFieldErrors(w, http.StatusBadRequest, errs)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteFieldErrors(w, http.StatusForbidden, model.FieldErrors{"username": "Username is already taken"})
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteFieldErrors(w, http.StatusForbidden, model.FieldErrors{"email": "Email is already registered"})
		default:
			log.Printf("[ERROR] Register handler: %v", err)
			httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error registering user", codeRegister, err)
		}
		return
	}

	token, err := h.authService.GenerateToken(user.ID.Hex())
	if err != nil {
		log.Printf("[ERROR] Register handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error generating token", codeRegister, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Login handles POST /api/users/login
// Body: {usernameOrEmail, password}. Responds {token} or {message}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UsernameOrEmail == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Username or email and password are required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Printf("[ERROR] Login handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error logging in", codeLogin, err)
		return
	}

	token, err := h.authService.GenerateToken(user.ID.Hex())
	if err != nil {
		log.Printf("[ERROR] Login handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error generating token", codeLogin, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ForgotPassword handles POST /api/users/forgot-password
// Body: {email}. Stores a hashed reset token on the user and returns the raw
// token to the caller.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.authService.CreateResetToken(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "No user found with this email.")
			return
		}
		log.Printf("[ERROR] ForgotPassword handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusInternalServerError, "Error generating reset token", codeForgotPassword, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Reset token generated", map[string]string{"resetToken": token})
}

// ResetPassword handles PUT /api/users/reset-password/{resetToken}
// Body: {password}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "resetToken")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Please enter your password")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		if errors.Is(err, model.ErrResetTokenInvalid) {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		log.Printf("[ERROR] ResetPassword handler: %v", err)
		httputil.WriteErrorCode(w, http.StatusBadRequest, "Error resetting password", codeResetPassword, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password updated successfully")
}
