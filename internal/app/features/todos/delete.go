package todos

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /todos/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tid, err := inputval.URLID(r, "id")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := auth.CurrentIdentity(r)
	t, _, err := board.LoadTask(ctx, h.Stores.Projects, h.Stores.Tasks, tid, id.UserID, projectpolicy.EditTasks)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if _, err := h.Stores.Tasks.Delete(ctx, t.ID); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{"id": t.ID.Hex()})
}
