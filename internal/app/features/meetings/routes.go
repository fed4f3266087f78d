// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the meeting routes under the base path (typically "/meetings"
// from bootstrap). Availability, preferences and results mount their own
// routers below /meetings/{id}.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// CREATE (anyone; the creator becomes the host)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	r.Route("/{id}", func(mr chi.Router) {
		mr.Use(sm.LoadParticipant)

		// OVERVIEW (participants see progress; others get a join prompt)
		mr.Get("/", h.ServeOverview)

		mr.Group(func(pr chi.Router) {
			pr.Use(sm.RequireParticipant)
			pr.Post("/leave", h.HandleLeave)
			pr.Post("/blocked", h.HandleBlocked)
		})
	})

	return r
}
