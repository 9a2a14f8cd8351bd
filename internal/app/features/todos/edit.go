package todos

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// HandleUpdate handles PUT /todos/{id}: text, description and status. The
// task's project and creator never change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	tid, err := inputval.URLID(r, "id")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := auth.CurrentIdentity(r)
	t, _, err := board.LoadTask(ctx, h.Stores.Projects, h.Stores.Tasks, tid, id.UserID, projectpolicy.EditTasks)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	var in models.TaskInput
	if err := payload.Decode(r, payload.TaskUpdate, &in); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	sanitize(&in)

	next, err := t.Apply(in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	saved, err := h.Stores.Tasks.Update(ctx, next)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, saved)
}

type moveRequest struct {
	Status string `json:"status"`
}

// HandleMove handles PATCH /todos/{id}/status: a column move through the
// board state machine.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	tid, err := inputval.URLID(r, "id")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	var req moveRequest
	if err := payload.Decode(r, payload.TaskMove, &req); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	to, err := models.ParseStatus(req.Status)
	if err != nil {
		apierr.Write(w, r, h.Log, &models.ValidationError{
			Kind:   models.ErrInvalidStatus,
			Fields: map[string]string{"status": "must be Backlog, Doing or Done"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := auth.CurrentIdentity(r)
	moved, err := h.Machine.MoveTask(ctx, tid, to, id.UserID)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, moved)
}
