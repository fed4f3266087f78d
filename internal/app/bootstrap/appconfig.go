// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level and request body limits. AppConfig carries everything that
// is specific to scheduling meetups.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: gmg-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a browser remembers joined meetings

	// CSRFKey signs CSRF tokens. Blank in dev means a random key per process.
	CSRFKey string

	// BaseURL prefixes invite links and calendar exports, e.g. "https://gmg.app".
	// Blank means derive from the request.
	BaseURL string

	// TimeZone is the zone "today" is taken in for past-day checks and D-day.
	TimeZone string
	Location *time.Location

	// Planning backend
	PlannerMode         string // "mock" or "http"
	PlannerBaseURL      string
	PlannerClientID     string
	PlannerClientSecret string
	PlannerTokenURL     string
	PlannerTimeout      time.Duration

	// Expired meeting cleanup
	MeetingRetention time.Duration // kept this long after the window ends
	CleanupInterval  time.Duration

	// Join attempts allowed per client IP per minute
	JoinAttemptsPerMinute int
	// Read the client IP from proxy headers
	TrustProxyHeaders     bool
}
