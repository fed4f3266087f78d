// internal/app/features/availability/routes.go
package availability

import (
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the availability routes under "/meetings/{id}/availability".
// Every route requires the browser to be a participant of the meeting.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadParticipant)
	r.Use(sm.RequireParticipant)

	r.Get("/", h.ServeCalendar)
	r.Post("/", h.HandleForm)
	r.Post("/gesture", h.HandleGesture)

	return r
}
