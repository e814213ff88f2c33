package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configures and returns the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public endpoints.
	r.Get("/status", h.handleStatus)
	r.Get("/stats", h.handleStats)
	r.Post("/users", h.handleCreateUser)
	r.Get("/connect", h.handleConnect)
	r.Get("/disconnect", h.handleDisconnect)

	// Content reads allow anonymous access to public files; the handler
	// resolves the token itself when one is present.
	r.Get("/files/{id}/data", h.handleGetFileData)

	// Session-scoped endpoints.
	r.Group(func(r chi.Router) {
		r.Use(h.TokenMiddleware)

		r.Get("/users/me", h.handleGetMe)
		r.Post("/files", h.handleCreateFile)
		r.Get("/files", h.handleListFiles)
		r.Get("/files/{id}", h.handleGetFile)
		r.Put("/files/{id}/publish", h.handlePublish)
		r.Put("/files/{id}/unpublish", h.handleUnpublish)
	})

	return r
}
