package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	userstore "github.com/techikansh/Kanban-Board/internal/app/store/users"
	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/normalize"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Email string `json:"email"`
}

// HandleRegister handles POST /auth/register. The account email is the one
// the identity provider vouches for; a body email may only repeat it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentIdentity(r); ok {
		apierr.Write(w, r, h.Log, userstore.ErrAlreadyRegistered)
		return
	}
	p, _ := auth.CurrentPrincipal(r)

	var req registerRequest
	if r.ContentLength != 0 {
		if err := payload.Decode(r, payload.Register, &req); err != nil {
			apierr.Write(w, r, h.Log, err)
			return
		}
	}

	email := strings.TrimSpace(p.Email)
	if email == "" {
		apierr.Write(w, r, h.Log, emailError("a verified email from the identity provider is required"))
		return
	}
	if body := strings.TrimSpace(req.Email); body != "" && text.Fold(normalize.Email(body)) != text.Fold(normalize.Email(email)) {
		apierr.Write(w, r, h.Log, emailError("must match the signed-in account"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, email, p.Subject)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	apierr.JSON(w, http.StatusCreated, u)
}

func emailError(msg string) error {
	return &models.ValidationError{
		Kind:   userstore.ErrInvalidEmail,
		Fields: map[string]string{"email": msg},
	}
}
