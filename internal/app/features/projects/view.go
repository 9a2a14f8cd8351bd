package projects

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// load resolves the {id} URL param to a project the caller holds need on.
func (h *Handler) load(ctx context.Context, r *http.Request, need projectpolicy.Capability) (models.Project, projectpolicy.Role, error) {
	pid, err := inputval.URLID(r, "id")
	if err != nil {
		return models.Project{}, projectpolicy.RoleNone, err
	}
	id, _ := auth.CurrentIdentity(r)
	return projectpolicy.Load(ctx, h.Stores.Projects, id.UserID, pid, need)
}

// ServeView handles GET /projects/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, role, err := h.load(ctx, r, projectpolicy.View)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewOf(p, role))
}

// ServeBoard handles GET /projects/{id}/board: the project's tasks grouped
// into Backlog/Doing/Done with per-column counts.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, role, err := h.load(ctx, r, projectpolicy.View)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	tasks, err := h.Stores.Tasks.ListByProject(ctx, p.ID, queryfilter.TaskFilter{})
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, boardResponse{
		Project: viewOf(p, role),
		Summary: board.Summarize(tasks),
	})
}
