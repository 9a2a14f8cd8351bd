// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	ProviderSession  = "session"
	ProviderFirebase = "firebase"

	minSessionKeyLen = 32
)

// appConfigKeys are loaded via WAFFLE's config system:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: KANBAN_MONGO_URI, KANBAN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kanban", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "identity_provider", Default: ProviderSession, Desc: "How callers are identified: 'session' or 'firebase'"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key shared with the login service"},
	{Name: "session_name", Default: "kanban-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "firebase_credentials_path", Default: "", Desc: "Service account JSON for Firebase token verification"},
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project id (optional when set in credentials)"},

	{Name: "timeout_short", Default: "", Desc: "Deadline for single-document operations (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Deadline for lists and validated updates (e.g., 10s)"},
	{Name: "timeout_long", Default: "", Desc: "Deadline for the cascade delete (e.g., 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults; app keys use the KANBAN_
// environment prefix.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KANBAN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityProvider: appValues.String("identity_provider"),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		FirebaseCredentialsPath: appValues.String("firebase_credentials_path"),
		FirebaseProjectID:       appValues.String("firebase_project_id"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection attempt, and the
// identity provider must have what it needs to verify callers.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	switch appCfg.IdentityProvider {
	case ProviderSession:
		if appCfg.SessionKey == "" {
			return errors.New("session mode requires session_key")
		}
		if len(appCfg.SessionKey) < minSessionKeyLen {
			logger.Warn("session_key is shorter than recommended",
				zap.Int("length", len(appCfg.SessionKey)),
				zap.Int("recommended", minSessionKeyLen))
		}
	case ProviderFirebase:
		if appCfg.FirebaseCredentialsPath == "" {
			return errors.New("firebase mode requires firebase_credentials_path")
		}
	default:
		return fmt.Errorf("unknown identity_provider %q (want %q or %q)",
			appCfg.IdentityProvider, ProviderSession, ProviderFirebase)
	}
	return nil
}
