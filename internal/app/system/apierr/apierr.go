// internal/app/system/apierr/apierr.go
//
// Package apierr maps domain errors onto HTTP status codes and writes them as
// JSON. "Not found" and "not allowed" share one response so a project's
// existence never leaks to someone without access.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techikansh/Kanban-Board/internal/app/policy/projectpolicy"
	userstore "github.com/techikansh/Kanban-Board/internal/app/store/users"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"github.com/techikansh/Kanban-Board/internal/app/system/cascade"
	"github.com/techikansh/Kanban-Board/internal/app/system/inputval"
	"github.com/techikansh/Kanban-Board/internal/app/system/ledger"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/app/system/requestid"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
)

// Body is the JSON shape of every error response.
type Body struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// Classify returns the status code and client-safe message for err.
func Classify(err error) (int, string) {
	var ve *models.ValidationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, projectpolicy.ErrNotFound),
		errors.Is(err, projectpolicy.ErrForbidden):
		return http.StatusNotFound, "project not found"
	case errors.Is(err, board.ErrTaskNotFound):
		return http.StatusNotFound, "task not found"
	case errors.Is(err, ledger.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound, "not found"
	case errors.Is(err, ledger.ErrAlreadyMember):
		return http.StatusConflict, ledger.ErrAlreadyMember.Error()
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return http.StatusConflict, userstore.ErrDuplicateEmail.Error()
	case errors.Is(err, userstore.ErrAlreadyRegistered):
		return http.StatusConflict, userstore.ErrAlreadyRegistered.Error()
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Kind.Error()
	case errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidProject),
		errors.Is(err, models.ErrInvalidTask),
		errors.Is(err, queryfilter.ErrInvalidFilter),
		errors.Is(err, userstore.ErrInvalidEmail),
		errors.Is(err, inputval.ErrInvalidID):
		return http.StatusBadRequest, err.Error()
	}
	if errors.Is(err, cascade.ErrTasksPending) {
		return http.StatusInternalServerError, cascade.ErrTasksPending.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

// Write sends err to the client. 5xx errors are logged with the request id;
// everything else is logged at debug.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := Classify(err)
	body := Body{Error: msg, RequestID: requestid.FromContext(r.Context())}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}

	if log != nil {
		fields := []zap.Field{
			zap.Error(err),
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", body.RequestID),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}
	}

	JSON(w, status, body)
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
