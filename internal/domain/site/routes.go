package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns site router, every route requires auth
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/browse", h.Browse)
	r.Patch("/{id}/status", h.UpdateStatus)

	return r
}
