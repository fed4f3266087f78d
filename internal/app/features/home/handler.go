// internal/app/features/home/handler.go
package home

import (
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB     *mongo.Database
	SM     *auth.SessionManager
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Loc is the zone "today" is taken in for D-day labels.
	Loc *time.Location
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:     db,
		SM:     sm,
		ErrLog: errLog,
		Log:    logger,
		Loc:    loc,
	}
}
