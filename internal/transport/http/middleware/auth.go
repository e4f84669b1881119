package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"picstream/internal/httputil"
	"picstream/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"
)

// TokenVerifier validates an access token and returns its subject user id.
type TokenVerifier interface {
	VerifyToken(tokenString string) (string, error)
}

// UserResolver resolves a user id to a user document.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Protect validates the bearer token, resolves its subject to a user, and
// attaches the user to the request context. Requests without a valid token
// get 401; tokens whose subject no longer exists get 404.
func Protect(verifier TokenVerifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route.")
				return
			}

			userID, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route.")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					httputil.WriteError(w, http.StatusNotFound, "No user found with this id.")
					return
				}
				httputil.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route.")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}
