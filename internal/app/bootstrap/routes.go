// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	availabilityfeature "github.com/gmgapp/gmg/internal/app/features/availability"
	errorsfeature "github.com/gmgapp/gmg/internal/app/features/errors"
	healthfeature "github.com/gmgapp/gmg/internal/app/features/health"
	homefeature "github.com/gmgapp/gmg/internal/app/features/home"
	joinfeature "github.com/gmgapp/gmg/internal/app/features/join"
	meetingsfeature "github.com/gmgapp/gmg/internal/app/features/meetings"
	preferencesfeature "github.com/gmgapp/gmg/internal/app/features/preferences"
	resultsfeature "github.com/gmgapp/gmg/internal/app/features/results"
	"github.com/gmgapp/gmg/internal/app/resources"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/planner"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// GMG boots the template engine, sets up the participant session and CSRF
// protection, builds the planner and mounts the feature routers: home, join,
// meetings and the per-meeting availability, preferences and results pages.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	loc := appCfg.Location

	plan, err := planner.New(planner.Config{
		Mode: appCfg.PlannerMode,
		HTTP: planner.HTTPConfig{
			BaseURL:      appCfg.PlannerBaseURL,
			ClientID:     appCfg.PlannerClientID,
			ClientSecret: appCfg.PlannerClientSecret,
			TokenURL:     appCfg.PlannerTokenURL,
			Timeout:      appCfg.PlannerTimeout,
		},
	})
	if err != nil {
		logger.Error("planner init failed", zap.Error(err))
		return nil, fmt.Errorf("planner: %w", err)
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// LoadParticipant re-checks the cookie against the database so a removed
	// participant loses access at once.
	sessionMgr.SetParticipantFetcher(participantstore.New(db))

	csrfKey := []byte(appCfg.CSRFKey)
	if len(csrfKey) != 32 {
		// tokens do not survive a restart with a per-process key
		csrfKey = securecookie.GenerateRandomKey(32)
		logger.Warn("csrf_key not set; using a random key for this process")
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	resources.LoadSharedTemplates()
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)
	viewdata.Init(models.DefaultSiteName)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers, outside CSRF.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.PlannerMode, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			// gorilla/csrf assumes HTTPS unless told otherwise
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
				})
			})
		}
		r.Use(csrf.Protect(csrfKey,
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				logger.Info("csrf check failed",
					zap.String("path", req.URL.Path),
					zap.Error(csrf.FailureReason(req)))
				errorsfeature.RenderForbidden(w, req, "Your form expired. Go back, reload the page and try again.", "/")
			})),
		))

		// Landing page and "my meetups"
		homeHandler := homefeature.NewHandler(db, sessionMgr, loc, errLog, logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Invite links
		joinHandler := joinfeature.NewHandler(db, sessionMgr, deps.JoinLimiter, errLog, logger)
		r.Mount("/join", joinfeature.Routes(joinHandler))

		// Per-meeting pages
		availHandler := availabilityfeature.NewHandler(db, loc, errLog, logger)
		r.Mount("/meetings/{id}/availability", availabilityfeature.Routes(availHandler, sessionMgr))

		prefsHandler := preferencesfeature.NewHandler(db, errLog, logger)
		r.Mount("/meetings/{id}/preferences", preferencesfeature.Routes(prefsHandler, sessionMgr))

		resultsHandler := resultsfeature.NewHandler(db, plan, appCfg.BaseURL, loc, errLog, logger)
		r.Mount("/meetings/{id}/results", resultsfeature.Routes(resultsHandler, sessionMgr))

		meetingsHandler := meetingsfeature.NewHandler(db, sessionMgr, appCfg.BaseURL, loc, errLog, logger)
		r.Mount("/meetings", meetingsfeature.Routes(meetingsHandler, sessionMgr))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/not-found", errorsHandler.NotFound)
	})

	r.NotFound(errorsfeature.NewHandler().NotFound)

	logger.Info("routes mounted",
		zap.String("planner_mode", appCfg.PlannerMode),
		zap.String("time_zone", loc.String()))

	return r, nil
}
