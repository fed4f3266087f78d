// internal/app/features/availability/load.go
package availability

import (
	"context"
	"errors"
	"net/http"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/domain/models"
)

var errNotParticipant = errors.New("availability: no participant in context")

// loadResult carries the meeting and the current participant's stored record.
type loadResult struct {
	Meeting     models.Meeting
	Participant models.Participant
}

// load fetches the meeting in the URL and the current participant. It reports
// a sentinel from meetingstore/participantstore/meetingutil on failure.
func (h *Handler) load(ctx context.Context, r *http.Request) (loadResult, error) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		return loadResult{}, err
	}
	me, ok := auth.CurrentParticipant(r)
	if !ok {
		return loadResult{}, errNotParticipant
	}
	m, err := meetingstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return loadResult{}, err
	}
	p, err := participantstore.New(h.DB).GetByID(ctx, me.ID)
	if err != nil {
		return loadResult{}, err
	}
	return loadResult{Meeting: m, Participant: p}, nil
}

// loadStatus maps a load error to an HTTP status and a user message.
func loadStatus(err error) (int, string) {
	switch {
	case errors.Is(err, meetingutil.ErrBadID):
		return http.StatusBadRequest, "Invalid meeting link."
	case errors.Is(err, errNotParticipant):
		return http.StatusForbidden, "Join this meetup first."
	case errors.Is(err, meetingstore.ErrNotFound):
		return http.StatusNotFound, "This meetup does not exist or has expired."
	case errors.Is(err, participantstore.ErrNotFound):
		return http.StatusForbidden, "You are no longer a participant of this meetup."
	default:
		return http.StatusInternalServerError, "Could not load the meetup."
	}
}

// renderLoadError renders an HTML error page for a load failure.
func (h *Handler) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := loadStatus(err)
	switch status {
	case http.StatusBadRequest:
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, msg, "/")
	case http.StatusForbidden:
		h.ErrLog.LogForbidden(w, r, "not a participant", err, msg, "/")
	case http.StatusNotFound:
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, msg, "/")
	default:
		h.ErrLog.LogServerError(w, r, "load availability failed", err, msg, "/")
	}
}
