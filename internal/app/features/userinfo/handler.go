// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
)

// Handler reports who the caller is.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Registered      bool   `json:"registered"`
	UserID          string `json:"userId,omitempty"`
	Email           string `json:"email"`
}

// ServeMe returns the caller's identity.
//
// Response format:
//
//	{ "isAuthenticated": bool, "registered": bool, "userId": "...", "email": "..." }
//
// A verified principal without a local user is authenticated but not
// registered; the client should call POST /auth/register.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.CurrentIdentity(r); ok {
		apierr.JSON(w, http.StatusOK, meResponse{
			IsAuthenticated: true,
			Registered:      true,
			UserID:          id.UserID.Hex(),
			Email:           id.Email,
		})
		return
	}
	if p, ok := auth.CurrentPrincipal(r); ok {
		apierr.JSON(w, http.StatusOK, meResponse{IsAuthenticated: true, Email: p.Email})
		return
	}
	apierr.JSON(w, http.StatusOK, meResponse{})
}
