// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/system/apierr"
	"github.com/techikansh/Kanban-Board/internal/app/system/requestid"
)

// Handler is the errors feature handler.
// No DB needed; it only writes JSON bodies for unmatched routes.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers routes the router does not know.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	apierr.JSON(w, http.StatusNotFound, apierr.Body{
		Error:     "not found",
		RequestID: requestid.FromContext(r.Context()),
	})
}

// MethodNotAllowed answers a known path with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.JSON(w, http.StatusMethodNotAllowed, apierr.Body{
		Error:     "method not allowed",
		RequestID: requestid.FromContext(r.Context()),
	})
}
