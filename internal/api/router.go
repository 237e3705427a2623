package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hoanghai1803/cfeditorial/internal/api/handlers"
)

// requestTimeout bounds a single request. A pipeline run with a rendered
// tutorial and a long extraction can take well over a minute.
const requestTimeout = 120 * time.Second

// NewRouter creates the HTTP router for the editorial API.
func NewRouter(svc handlers.EditorialService, lookup handlers.ProblemLookup) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health(svc))

		api.Post("/editorial", handlers.GetEditorial(svc))
		api.Post("/problems", handlers.GetProblem(lookup))

		api.Delete("/cache", handlers.ClearCache(svc))
		api.Get("/runs", handlers.GetRecentRuns(svc))
	})

	return r
}
