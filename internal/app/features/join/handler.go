// internal/app/features/join/handler.go
package join

import (
	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the invite flow: looking a meeting up by code and joining it
// as a new or returning participant.
type Handler struct {
	DB      *mongo.Database
	SM      *auth.SessionManager
	Limiter *ratelimit.JoinLimiter
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a join handler. A nil limiter disables rate limiting.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, limiter *ratelimit.JoinLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		SM:      sm,
		Limiter: limiter,
		ErrLog:  errLog,
		Log:     logger,
	}
}
