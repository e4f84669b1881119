package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"picstream/internal/handler"
	"picstream/internal/httputil"
	authmw "picstream/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	ImageHandler        *handler.ImageHandler
	NotificationHandler *handler.NotificationHandler
	TokenVerifier       authmw.TokenVerifier
	UserResolver        authmw.UserResolver
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Post("/users/register", cfg.AuthHandler.Register)
		r.Post("/users/login", cfg.AuthHandler.Login)
		r.Post("/users/forgot-password", cfg.AuthHandler.ForgotPassword)
		r.Put("/users/reset-password/{resetToken}", cfg.AuthHandler.ResetPassword)

		r.Get("/users", cfg.UserHandler.List)
		r.Get("/users/{id}", cfg.UserHandler.Get)

		// Protected routes - require a bearer token resolving to a user
		r.Group(func(r chi.Router) {
			r.Use(authmw.Protect(cfg.TokenVerifier, cfg.UserResolver))

			r.Put("/users/{id}", cfg.UserHandler.Edit)

			r.Post("/{userid}/images", cfg.ImageHandler.Upload)
			r.Put("/posts/{postid}/likes/{userid}", cfg.ImageHandler.Like)
			r.Delete("/posts/{postid}/likes/{userid}", cfg.ImageHandler.Unlike)

			r.Get("/notifications", cfg.NotificationHandler.List)
		})
	})

	return r
}
