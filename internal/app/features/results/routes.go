// internal/app/features/results/routes.go
package results

import (
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the results routes under "/meetings/{id}/results".
// Only participants see results; only the host may (re)plan.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadParticipant)
	r.Use(sm.RequireParticipant)

	r.Get("/", h.ServeResults)
	r.Get("/plan", h.ServePlan)
	r.Post("/plan", h.HandlePlan)
	r.Get("/plan.ics", h.ServeICS)

	return r
}
