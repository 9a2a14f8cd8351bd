// internal/app/features/users/routes.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/ratelimit"
)

// Routes mounts the directory routes at /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireIdentity)
	r.Use(h.Limiter.Middleware(callerKey))
	r.Get("/search", h.ServeSearch)
	return r
}

// RegisterRoutes mounts POST /register; typically at /auth. Only a verified
// principal is needed since the caller has no local user yet.
func RegisterRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequirePrincipal)
	r.Use(h.Limiter.Middleware(callerKey))
	r.Post("/register", h.HandleRegister)
	return r
}

// callerKey buckets by local user, then by verified subject, then by address.
func callerKey(r *http.Request) string {
	if id, ok := auth.CurrentIdentity(r); ok {
		return "user:" + id.UserID.Hex()
	}
	if p, ok := auth.CurrentPrincipal(r); ok && p.Subject != "" {
		return "sub:" + p.Subject
	}
	return "ip:" + ratelimit.ClientIP(r)
}
