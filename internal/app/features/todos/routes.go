// internal/app/features/todos/routes.go
package todos

import (
	"github.com/go-chi/chi/v5"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
)

// Routes mounts task routes; typically r.Mount("/todos", todos.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Patch("/{id}/status", h.HandleMove)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
