package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"corkboard/internal/handler"
	"corkboard/internal/httputil"
	"corkboard/internal/ratelimit"
	authmw "corkboard/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	PostHandler *handler.PostHandler
	Verifier    authmw.TokenVerifier
	Limiter     ratelimit.Limiter
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

	// Public routes - no authentication required. Signup and login are rate
	// limited per client IP.
	r.Route("/auth", func(r chi.Router) {
		r.With(authmw.RateLimitMiddleware(cfg.Limiter)).Post("/signup", cfg.AuthHandler.Signup)
		r.With(authmw.RateLimitMiddleware(cfg.Limiter)).Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	// Public post reads with optional authentication, so anonymous visitors
	// see posts but only authenticated viewers get their like status
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.Verifier))

		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{postID}", cfg.PostHandler.Get)
		r.Get("/posts/{postID}/thread", cfg.PostHandler.GetThread)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.Verifier))

		// Current user endpoint
		r.Get("/auth/me", cfg.AuthHandler.Me)

		// Post endpoints
		r.Post("/posts", cfg.PostHandler.Create)
		r.Post("/posts/{postID}/comments", cfg.PostHandler.AddComment)
		r.Post("/posts/{postID}/like", cfg.PostHandler.ToggleLike)
	})

	return r
}
