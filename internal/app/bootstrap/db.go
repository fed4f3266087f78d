// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/indexes"
	"github.com/gmgapp/gmg/internal/app/system/ratelimit"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client, verifies it with a ping and builds
// the back-end services that outlive a request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	cctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(appCfg.MongoURI).SetAppName("gmg"))
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, timeouts.Ping())
	defer pcancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Cleanup: workers.NewMeetingCleanup(
			meetingstore.New(db),
			participantstore.New(db),
			planstore.New(db),
			logger.Named("cleanup"),
			appCfg.CleanupInterval,
			appCfg.MeetingRetention,
		),
		JoinLimiter: ratelimit.NewJoinLimiter(appCfg.JoinAttemptsPerMinute, appCfg.TrustProxyHeaders),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on (unique invite codes,
// unique participant names per meeting, one plan per meeting).
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ictx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := indexes.EnsureAll(ictx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
