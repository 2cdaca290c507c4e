package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// NewRouter creates the Chi router with all API routes mounted. archive may be
// nil, in which case the history and stats routes answer 503.
func NewRouter(runner Runner, archive domain.ArchiveRepository) http.Handler {
	h := &Handlers{
		runner:  runner,
		archive: archive,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Runs.
		r.Post("/runs", h.CreateRun)

		// Archived results.
		r.Get("/results", h.ListResults)

		// Dashboard aggregates.
		r.Route("/stats", func(r chi.Router) {
			r.Get("/status", h.GetStatusStats)
			r.Get("/subsidiaries", h.GetSubsidiaryStats)
			r.Get("/rejects", h.GetRejectStats)
		})
	})

	return r
}
