// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
)

// Routes must be mounted under a path carrying the project id:
// r.Mount("/projects/{id}/members", members.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)

	r.Post("/", h.HandleAdd)
	r.Delete("/", h.HandleRemove)
	return r
}
