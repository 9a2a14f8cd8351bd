package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

// ServeSearch handles GET /users/search?query=. It answers with a bare array
// of emails, never including the caller's own.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	found, err := h.Users.SearchByEmail(ctx, query.Search(r, "query"), id.Email)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	emails := make([]string, 0, len(found))
	for _, u := range found {
		emails = append(emails, u.Email)
	}
	apierr.JSON(w, http.StatusOK, emails)
}
