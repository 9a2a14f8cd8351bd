// internal/app/features/todos/handler.go
package todos

import (
	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/board"
	"go.uber.org/zap"
)

// Handler serves task CRUD. Owners and editors write; viewers only read.
type Handler struct {
	Stores  store.Set
	Machine *board.Machine
	Log     *zap.Logger
}

func NewHandler(stores store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Stores:  stores,
		Machine: board.NewMachine(stores.Projects, stores.Tasks),
		Log:     logger,
	}
}
