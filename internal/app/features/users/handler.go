// internal/app/features/users/handler.go
package users

import (
	"time"

	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Per-caller request budget for the directory routes.
const (
	DefaultRateLimit  = 30
	DefaultRateWindow = time.Minute
)

// Handler serves the user directory: email search for the member picker and
// first-time registration of a verified principal.
type Handler struct {
	Users   store.Users
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(users store.Users, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Limiter: ratelimit.New(DefaultRateLimit, DefaultRateWindow),
		Log:     logger,
	}
}
