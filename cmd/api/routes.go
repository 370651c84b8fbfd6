package main

import (
	"context"
	"net/http"
	"time"

	"bookmory/internal/auth"
	"bookmory/internal/catalog"
	"bookmory/internal/httpx"
	"bookmory/internal/library"
	"bookmory/internal/user"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type routerDeps struct {
	log       *zap.Logger
	jwtSecret string
	blacklist httpx.TokenBlacklist
	// ready reports whether backing services (Postgres) answer.
	ready func(ctx context.Context) error

	corsOrigins  []string
	enableHSTS   bool
	maxBodyBytes int64
	rateLimit    *httpx.RateLimitMiddleware

	auth    *auth.HTTPHandler
	users   *user.HTTPHandler
	catalog *catalog.HTTPHandler
	library *library.HTTPHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware(d.log))
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(d.enableHSTS))
	r.Use(httpx.CORSMiddleware(d.corsOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(d.maxBodyBytes))
	if d.rateLimit != nil {
		r.Use(d.rateLimit.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			httpx.LoggerFrom(r.Context()).Warn("readiness check failed", zap.Error(err))
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	requireAuth := httpx.AuthMiddleware(d.jwtSecret, d.blacklist)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.auth.Register)
			r.Post("/login", d.auth.Login)
			r.With(requireAuth).Post("/logout", d.auth.Logout)
			r.With(requireAuth).Get("/validate", d.auth.Validate)
			// older clients read the profile here
			r.With(requireAuth).Get("/profile", d.users.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", d.users.Me)
			r.Patch("/me", d.users.UpdateMe)

			r.With(httpx.RequireRole(user.RoleAdmin, user.RoleModerator)).Get("/", d.users.List)
			r.With(httpx.RequireRole(user.RoleAdmin)).Post("/", d.users.Create)
			r.With(httpx.RequireRole(user.RoleAdmin, user.RoleModerator)).Get("/{id}", d.users.GetByID)
			r.With(httpx.RequireRole(user.RoleAdmin)).Patch("/{id}", d.users.Update)
			r.With(httpx.RequireRole(user.RoleAdmin)).Delete("/{id}", d.users.Delete)
		})

		r.Route("/books", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/search", d.catalog.Search)
			r.Get("/advanced-search", d.catalog.AdvancedSearch)
			r.Get("/{id}", d.catalog.GetByID)
		})

		r.Route("/library", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", d.library.Add)
			r.Get("/", d.library.List)
			r.Get("/stats", d.library.Stats)
			r.Get("/{bookId}", d.library.Get)
			r.Delete("/{bookId}", d.library.Remove)
			r.Patch("/{bookId}/progress", d.library.UpdateProgress)
		})
	})

	return r
}
