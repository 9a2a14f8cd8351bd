package members

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// HandleAdd handles POST /projects/{id}/members with {email, role}. Role
// defaults to viewer.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	var req addRequest
	if err := payload.Decode(r, payload.MemberAdd, &req); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	role, err := models.ParseMemberRole(req.Role)
	if err != nil {
		apierr.Write(w, r, h.Log, &models.ValidationError{
			Kind:   models.ErrInvalidRole,
			Fields: map[string]string{"role": "must be viewer or editor"},
		})
		return
	}

	m, err := h.Ledger.AddMember(ctx, p, req.Email, role)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	updated, err := h.Stores.Projects.GetByID(ctx, p.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusCreated, addResponse{Member: m, Project: updated})
}

// loadOwned resolves {id} to a project the caller owns, writing the error
// response itself when that fails.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	pid, err := inputval.URLID(r, "id")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return models.Project{}, false
	}
	id, _ := auth.CurrentIdentity(r)
	p, _, err := projectpolicy.Load(ctx, h.Stores.Projects, id.UserID, pid, projectpolicy.Manage)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return models.Project{}, false
	}
	return p, true
}
