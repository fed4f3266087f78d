// internal/app/features/meetings/handler.go
package meetings

import (
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxWindowDays bounds how long the candidate date window may be.
const MaxWindowDays = 92

// Handler is the feature-level entry point for creating and viewing meetings.
type Handler struct {
	DB     *mongo.Database
	SM     *auth.SessionManager
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// BaseURL prefixes invite links; empty means derive from the request.
	BaseURL string
	Loc     *time.Location
}

// NewHandler constructs a meetings handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, baseURL string, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:      db,
		SM:      sm,
		ErrLog:  errLog,
		Log:     logger,
		BaseURL: baseURL,
		Loc:     loc,
	}
}
