package todos

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

// ServeList handles GET /todos?projectId=, oldest first, optionally filtered
// by q/status/created_from/created_to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	pid, err := inputval.QueryID(r, "projectId")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	f, err := queryfilter.ParseTaskFilter(r)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := auth.CurrentIdentity(r)
	p, _, err := projectpolicy.Load(ctx, h.Stores.Projects, id.UserID, pid, projectpolicy.View)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	tasks, err := h.Stores.Tasks.ListByProject(ctx, p.ID, f)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, tasks)
}
