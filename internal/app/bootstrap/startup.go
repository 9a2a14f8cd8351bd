// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/techikansh/Kanban-Board/internal/app/system/payload"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	applyTimeouts(appCfg, logger)

	// Compile request schemas now so a broken schema fails startup rather
	// than the first request.
	payload.MustLoad()
	return nil
}

// applyTimeouts layers KANBAN_TIMEOUT_* env values over the config keys.
func applyTimeouts(appCfg AppConfig, logger *zap.Logger) {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	n := timeouts.ConfigureFromEnv()

	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Int("from_env", n),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))
}
