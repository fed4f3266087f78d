// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gmgapp/gmg/internal/app/system/planner"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GMG.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: GMG_MONGO_URI, GMG_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "gmg", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "gmg-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "2160h", Desc: "How long a browser remembers joined meetups"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF signing key (random per process in dev when blank)"},

	{Name: "base_url", Default: "", Desc: "Public base URL for invite links (blank derives from the request)"},
	{Name: "time_zone", Default: "Asia/Seoul", Desc: "IANA zone used for 'today'"},

	// Planning backend
	{Name: "planner_mode", Default: planner.ModeMock, Desc: "Planner backend: 'mock' or 'http'"},
	{Name: "planner_base_url", Default: "", Desc: "Planning service base URL (http mode)"},
	{Name: "planner_client_id", Default: "", Desc: "OAuth2 client ID for the planning service"},
	{Name: "planner_client_secret", Default: "", Desc: "OAuth2 client secret for the planning service"},
	{Name: "planner_token_url", Default: "", Desc: "OAuth2 token URL for the planning service"},
	{Name: "planner_timeout", Default: "20s", Desc: "Deadline for one planning call"},

	// Background cleanup
	{Name: "meeting_retention", Default: "720h", Desc: "How long meetups are kept after their window ends"},
	{Name: "cleanup_interval", Default: "1h", Desc: "How often expired meetups are swept"},

	{Name: "join_attempts_per_minute", Default: 20, Desc: "Join attempts allowed per client IP per minute"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (only behind a reverse proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, GMG_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GMG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 90*24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		BaseURL:  appValues.String("base_url"),
		TimeZone: appValues.String("time_zone"),

		// Planner
		PlannerMode:         appValues.String("planner_mode"),
		PlannerBaseURL:      appValues.String("planner_base_url"),
		PlannerClientID:     appValues.String("planner_client_id"),
		PlannerClientSecret: appValues.String("planner_client_secret"),
		PlannerTokenURL:     appValues.String("planner_token_url"),
		PlannerTimeout:      appValues.Duration("planner_timeout", 20*time.Second),

		// Cleanup
		MeetingRetention: appValues.Duration("meeting_retention", 30*24*time.Hour),
		CleanupInterval:  appValues.Duration("cleanup_interval", time.Hour),

		JoinAttemptsPerMinute: appValues.Int("join_attempts_per_minute"),
		TrustProxyHeaders:     appValues.Bool("trust_proxy_headers"),
	}

	// resolved here so every later hook can use it; ValidateConfig reports a bad zone
	if loc, err := time.LoadLocation(appCfg.TimeZone); err == nil {
		appCfg.Location = loc
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Every problem is collected so a misconfigured deployment reports all of
// them at once.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	var errs cerrors.M

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		errs.Append(fmt.Errorf("invalid MongoDB URI: %w", err))
	}
	if appCfg.MongoDatabase == "" {
		errs.Append(fmt.Errorf("mongo_database is required"))
	}
	if appCfg.Location == nil {
		errs.Append(fmt.Errorf("unknown time_zone %q", appCfg.TimeZone))
	}

	switch appCfg.PlannerMode {
	case "", planner.ModeMock:
	case planner.ModeHTTP:
		if appCfg.PlannerBaseURL == "" {
			errs.Append(fmt.Errorf("planner_mode=http requires planner_base_url"))
		}
		if appCfg.PlannerClientID != "" && appCfg.PlannerTokenURL == "" {
			errs.Append(fmt.Errorf("planner_client_id requires planner_token_url"))
		}
	default:
		errs.Append(fmt.Errorf("unknown planner_mode %q (want %q or %q)", appCfg.PlannerMode, planner.ModeMock, planner.ModeHTTP))
	}

	if appCfg.MeetingRetention <= 0 || appCfg.CleanupInterval <= 0 {
		errs.Append(fmt.Errorf("meeting_retention and cleanup_interval must be positive"))
	}
	if appCfg.JoinAttemptsPerMinute <= 0 {
		errs.Append(fmt.Errorf("join_attempts_per_minute must be positive"))
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.CSRFKey) != 32 {
		errs.Append(fmt.Errorf("csrf_key must be exactly 32 bytes in prod"))
	}

	if err := errs.Err(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}
