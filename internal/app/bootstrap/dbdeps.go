// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/gmgapp/gmg/internal/app/system/ratelimit"
	"github.com/gmgapp/gmg/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Cleanup is started in Startup and stopped in Shutdown.
	Cleanup *workers.MeetingCleanup
	// JoinLimiter runs a sweeper goroutine; Shutdown closes it.
	JoinLimiter *ratelimit.JoinLimiter
}
