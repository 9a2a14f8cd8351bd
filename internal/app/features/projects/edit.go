package projects

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// HandleUpdate handles PUT /projects/{id} (owner only). Omitted fields keep
// their value; "dueDate": "" clears the due date.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, role, err := h.load(ctx, r, projectpolicy.Manage)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	var in models.ProjectInput
	if err := payload.Decode(r, payload.ProjectUpdate, &in); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	sanitize(&in)

	next, err := p.Apply(in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	saved, err := h.Stores.Projects.Update(ctx, next, in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewOf(saved, role))
}
