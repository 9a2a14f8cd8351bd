// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/techikansh/Kanban-Board/internal/app/system/indexes"
	"github.com/techikansh/Kanban-Board/internal/app/system/validators"
	"go.uber.org/zap"
)

// EnsureSchema creates the collections, attaches validators and reconciles
// indexes. Any failure aborts startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	return nil
}
