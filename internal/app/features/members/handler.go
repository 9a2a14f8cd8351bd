// internal/app/features/members/handler.go
package members

import (
	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/ledger"
	"go.uber.org/zap"
)

// Handler adds and removes project members. Both operations are owner-only;
// a member cannot remove themselves.
type Handler struct {
	Stores store.Set
	Ledger *ledger.Ledger
	Log    *zap.Logger
}

func NewHandler(stores store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Stores: stores,
		Ledger: ledger.New(stores.Users, stores.Projects, logger),
		Log:    logger,
	}
}
