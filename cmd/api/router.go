package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/secure-notes/internal/auth"
	"github.com/crucial707/secure-notes/internal/config"
	"github.com/crucial707/secure-notes/internal/handlers"
	"github.com/crucial707/secure-notes/internal/middleware"
	"github.com/crucial707/secure-notes/internal/repo"
)

// newRouter wires repositories, the auth boundary and handlers onto a chi router.
func newRouter(db *sql.DB, cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	userRepo := repo.NewUserRepo(db)
	noteRepo := repo.NewNoteRepo(db)
	auditRepo := repo.NewAuditRepo(db)
	resolver := auth.NewResolver(tokens, userRepo)

	authHandler := &handlers.AuthHandler{
		Users:  userRepo,
		Hasher: auth.NewHasher(cfg.BcryptCost),
		Tokens: tokens,
		Logger: logger,
	}
	userHandler := &handlers.UserHandler{Notes: noteRepo, Logger: logger}
	noteHandler := &handlers.NoteHandler{Notes: noteRepo, Audit: auditRepo, Logger: logger}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo, Logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(int64(cfg.MaxBodyBytes)))
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// ===== Public =====
	r.Get("/", handlers.Welcome)
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(db))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", authHandler.Signup)
	r.Post("/users/token", authHandler.Login)

	// ===== Authenticated =====
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(resolver, logger))

		r.Get("/users/me", userHandler.Me)
		r.Get("/users/me/audit", auditHandler.ListAudit)

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", noteHandler.CreateNote)
			r.Get("/", noteHandler.ListNotes)
			r.Get("/{id}", noteHandler.GetNote)
			r.Put("/{id}", noteHandler.UpdateNote)
			r.Patch("/{id}", noteHandler.UpdateNote)
			r.Delete("/{id}", noteHandler.DeleteNote)
		})
	})

	return r, nil
}
