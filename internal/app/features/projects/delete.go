package projects

import (
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /projects/{id} (owner only): the project
// document first, then its tasks.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete project")
	defer cancel()

	p, _, err := h.load(ctx, r, projectpolicy.Manage)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	res, err := h.Cascade.DeleteProject(ctx, p.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, deleteResponse{ID: p.ID.Hex(), Result: res})
}
