package projects

import (
	"context"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/htmlsanitize"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
)

// ServeList handles GET /projects: every project the caller owns or is a
// member of, newest first, optionally filtered by q/due_from/due_to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	f, err := queryfilter.ParseProjectFilter(r)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Stores.Projects.ListForUser(ctx, id.UserID, f)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	out := make([]projectView, 0, len(list))
	for _, p := range list {
		out = append(out, viewOf(p, projectpolicy.EffectiveRole(id.UserID, p)))
	}
	apierr.JSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /projects. The caller becomes the owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var in models.ProjectInput
	if err := payload.Decode(r, payload.ProjectCreate, &in); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	sanitize(&in)

	p, err := models.NewProject(id.UserID, in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Stores.Projects.Create(ctx, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusCreated, viewOf(created, projectpolicy.RoleOwner))
}

func sanitize(in *models.ProjectInput) {
	if in.Description != nil {
		d := htmlsanitize.Description(*in.Description)
		in.Description = &d
	}
}
