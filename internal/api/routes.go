package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface: one generation endpoint plus health and
// info endpoints.
func NewRouter(p StoryPipeline, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	handlers := NewHandlers(p, logger)

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	r.Post("/generate", handlers.Generate)

	return r
}
