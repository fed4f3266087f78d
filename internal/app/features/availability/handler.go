// internal/app/features/availability/handler.go
package availability

import (
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxGestureBody bounds the JSON body of one recorded gesture.
const maxGestureBody = 256 << 10

// maxGestureAttempts bounds replays of a gesture whose save lost a race.
const maxGestureAttempts = 3

// Handler serves the drag-select availability calendar of a participant.
type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Loc is the zone "today" is taken in; days before today are disabled.
	Loc *time.Location
}

func NewHandler(db *mongo.Database, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
		Loc:    loc,
	}
}
