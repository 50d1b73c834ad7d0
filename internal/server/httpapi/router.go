package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a chi router with all API routes mounted. The health
// endpoint is public; flashcard generation and sync require a Bearer JWT
// signed with secretKey.
func NewRouter(h *Handler, secretKey []byte, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/api/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(secretKey))
		r.Post("/api/flashcards/generate", h.GenerateFlashcards)
		r.Post("/api/sync", h.Sync)
	})

	return r
}
