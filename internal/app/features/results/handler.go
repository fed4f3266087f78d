// internal/app/features/results/handler.go
package results

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/system/planner"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxBestDates is how many ranked dates the results page lists.
const MaxBestDates = 5

// Handler serves the group results: the heat calendar, the best dates and
// the plan computed from them.
type Handler struct {
	DB      *mongo.Database
	Planner planner.Planner
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	// BaseURL prefixes links written into calendar exports; empty means
	// derive from the request.
	BaseURL string
	Loc     *time.Location
}

func NewHandler(db *mongo.Database, p planner.Planner, baseURL string, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:      db,
		Planner: p,
		ErrLog:  errLog,
		Log:     logger,
		BaseURL: baseURL,
		Loc:     loc,
	}
}

func (h *Handler) absURL(r *http.Request, path string) string {
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + path
}
