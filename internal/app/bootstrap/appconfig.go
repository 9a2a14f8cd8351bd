// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// logging, CORS, body limits). Everything specific to the board service
// lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity: "session" (cookie from the login service) or "firebase"
	IdentityProvider string

	// Session cookie verification (session mode)
	SessionKey    string // Shared signing key; must match the login service
	SessionName   string // Cookie name (default: kanban-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Firebase ID token verification (firebase mode)
	FirebaseCredentialsPath string
	FirebaseProjectID       string

	// Per-operation store deadlines; zero keeps the default
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
