// internal/app/features/results/load.go
package results

import (
	"context"
	"errors"
	"net/http"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/domain/models"
)

// loadMeeting fetches the meeting in the URL, rendering an error page itself
// when it fails.
func (h *Handler) loadMeeting(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Meeting, bool) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting link.", "/")
		return models.Meeting{}, false
	}
	m, err := meetingstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, "This meetup does not exist or has expired.", "/")
		return models.Meeting{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting failed", err, "Could not load the meetup.", "/")
		return models.Meeting{}, false
	}
	return m, true
}
