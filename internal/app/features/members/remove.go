package members

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

// HandleRemove handles DELETE /projects/{id}/members?userId=. Removing a
// user who is not a member succeeds with removed=false. Only the owner may
// call it; members cannot remove themselves.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}
	uid, err := inputval.QueryID(r, "userId")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	removed, err := h.Ledger.RemoveMember(ctx, p.ID, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	updated, err := h.Stores.Projects.GetByID(ctx, p.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, removeResponse{Removed: removed, Project: updated})
}
