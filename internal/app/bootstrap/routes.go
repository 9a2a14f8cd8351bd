// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	errorsfeature "github.com/techikansh/Kanban-Board/internal/app/features/errors"
	healthfeature "github.com/techikansh/Kanban-Board/internal/app/features/health"
	membersfeature "github.com/techikansh/Kanban-Board/internal/app/features/members"
	projectsfeature "github.com/techikansh/Kanban-Board/internal/app/features/projects"
	todosfeature "github.com/techikansh/Kanban-Board/internal/app/features/todos"
	userinfofeature "github.com/techikansh/Kanban-Board/internal/app/features/userinfo"
	usersfeature "github.com/techikansh/Kanban-Board/internal/app/features/users"
	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/auth"
	"github.com/techikansh/Kanban-Board/internal/app/system/requestid"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every request gets a request id and passes through
// the identity gate; features decide for themselves whether an identity is
// required.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	stores := store.NewMongo(deps.MongoDatabase)

	verifier, err := buildVerifier(context.Background(), coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("identity verifier init failed", zap.Error(err))
		return nil, err
	}
	return newRouter(stores, deps.MongoClient, verifier, logger), nil
}

// buildVerifier picks the identity provider. Secure cookies are enabled in
// production mode.
func buildVerifier(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (auth.Verifier, error) {
	switch appCfg.IdentityProvider {
	case ProviderFirebase:
		return auth.NewFirebaseVerifier(ctx, appCfg.FirebaseCredentialsPath, appCfg.FirebaseProjectID, logger)
	case ProviderSession, "":
		secure := coreCfg != nil && coreCfg.Env == "prod"
		cs, err := auth.NewSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger)
		if err != nil {
			return nil, err
		}
		return auth.NewSessionVerifier(cs, appCfg.SessionName, logger), nil
	}
	return nil, fmt.Errorf("unknown identity_provider %q", appCfg.IdentityProvider)
}

// newRouter mounts every feature. Split from BuildHandler so tests can
// supply in-memory stores and a fake verifier.
func newRouter(stores store.Set, pinger healthfeature.Pinger, verifier auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware(logger))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators; no identity.
	if pinger != nil {
		healthHandler := healthfeature.NewHandler(pinger, logger)
		r.Mount("/health", healthfeature.Routes(healthHandler))
	}

	r.Group(func(r chi.Router) {
		// Global identity middleware: puts the principal and, once
		// registered, the identity into context.
		gate := auth.NewGate(verifier, stores.Users, logger)
		r.Use(gate.Load)

		usersHandler := usersfeature.NewHandler(stores.Users, logger)
		r.Mount("/auth", usersfeature.RegisterRoutes(usersHandler))
		r.Mount("/users", usersfeature.Routes(usersHandler))

		userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

		// Projects and their member lists
		projectsHandler := projectsfeature.NewHandler(stores, logger)
		r.Mount("/projects", projectsfeature.Routes(projectsHandler))

		membersHandler := membersfeature.NewHandler(stores, logger)
		r.Mount("/projects/{id}/members", membersfeature.Routes(membersHandler))

		// Tasks
		todosHandler := todosfeature.NewHandler(stores, logger)
		r.Mount("/todos", todosfeature.Routes(todosHandler))
	})

	return r
}
