// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
)

// Routes mounts project routes; typically r.Mount("/projects", projects.Routes(h)).
// Member routes live in the members feature under /projects/{id}/members.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/board", h.ServeBoard)
	return r
}
