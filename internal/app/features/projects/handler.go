// internal/app/features/projects/handler.go
package projects

import (
	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/cascade"
	"go.uber.org/zap"
)

// Handler serves project CRUD and the board summary.
// Every project lookup goes through projectpolicy.Load.
type Handler struct {
	Stores  store.Set
	Cascade *cascade.Deleter
	Log     *zap.Logger
}

func NewHandler(stores store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Stores:  stores,
		Cascade: cascade.New(stores.Projects, stores.Tasks, logger),
		Log:     logger,
	}
}
