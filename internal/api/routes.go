package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Spreadsheet hygiene
		r.Post("/hygiene", h.RunHygiene)
		r.Post("/hygiene/workbook", h.HygieneWorkbook)

		// Lead distribution (call sheets per consultant)
		r.Post("/distribute", h.Distribute)

		// CRM import files and error-report reconciliation
		r.Post("/crm/people", h.CRMPeople)
		r.Post("/crm/deals", h.CRMDeals)
		r.Post("/crm/report", h.ReconcileReport)

		// Consultant / team registry
		r.Route("/roster", func(r chi.Router) {
			r.Get("/consultants", h.ListConsultants)
			r.Post("/consultants", h.AddConsultant)
			r.Delete("/consultants/{name}", h.RemoveConsultant)
			r.Get("/teams", h.ListTeams)
			r.Post("/teams", h.SaveTeam)
			r.Delete("/teams/{name}", h.RemoveTeam)
		})
	})

	return r
}
