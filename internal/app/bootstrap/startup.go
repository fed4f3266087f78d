// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/gmgapp/gmg/internal/app/resources"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it loads
// the shared templates, applies the configured planner deadline and starts
// the expired-meeting cleanup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{Planner: appCfg.PlannerTimeout})

	if deps.Cleanup != nil {
		deps.Cleanup.Start()
	}
	logger.Info("startup complete", zap.String("planner_mode", appCfg.PlannerMode))
	return nil
}
