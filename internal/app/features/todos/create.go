package todos

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/htmlsanitize"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

type createRequest struct {
	ProjectID string `json:"projectId"`
	models.TaskInput
}

// HandleCreate handles POST /todos. The caller must own or edit the project.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := payload.Decode(r, payload.TaskCreate, &req); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	pid, err := inputval.ParseID(req.ProjectID)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := auth.CurrentIdentity(r)
	p, _, err := projectpolicy.Load(ctx, h.Stores.Projects, id.UserID, pid, projectpolicy.EditTasks)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	sanitize(&req.TaskInput)
	t, err := models.NewTask(p.ID, id.UserID, req.TaskInput)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	created, err := h.Stores.Tasks.Create(ctx, t)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusCreated, created)
}

func sanitize(in *models.TaskInput) {
	if in.Description != nil {
		d := htmlsanitize.Description(*in.Description)
		in.Description = &d
	}
}
