package join

import "github.com/go-chi/chi/v5"

// Routes mounts the invite routes (typically under "/join").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLookup)
	r.Get("/{code}", h.ServeJoin)
	r.Post("/{code}", h.HandleJoin)
	return r
}
