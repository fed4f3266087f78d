// internal/app/features/preferences/routes.go
package preferences

import (
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the preference routes under "/meetings/{id}/preferences".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadParticipant)
	r.Use(sm.RequireParticipant)

	r.Get("/", h.ServePreferences)
	r.Post("/", h.HandlePreferences)

	return r
}
