// internal/app/features/meetings/manage.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleLeave forgets the meeting in this browser. The participant and their
// answers stay; joining again with the same name and passcode restores them.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting link.", "/")
		return
	}
	if err := h.SM.Forget(w, r, id); err != nil {
		h.ErrLog.LogServerError(w, r, "forget meeting failed", err, "Could not leave the meetup.", "/meetings/"+id.Hex())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleBlocked lets the host replace the blocked dates. Blocked dates are
// disabled on every participant's calendar.
func (h *Handler) HandleBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting link.", "/")
		return
	}
	back := "/meetings/" + id.Hex()

	me, ok := auth.CurrentParticipant(r)
	if !ok || !me.IsHost {
		h.ErrLog.LogForbidden(w, r, "non-host tried to block dates", nil, "Only the host can block dates.", back)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", back)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := meetingstore.New(h.DB)
	m, err := store.GetByID(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, "This meetup does not exist or has expired.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting failed", err, "Could not load the meetup.", back)
		return
	}

	dates, bad := meetingutil.ParseDateList(r.FormValue("blocked"), m)
	if len(bad) > 0 {
		h.ErrLog.LogBadRequest(w, r, "bad blocked dates", nil,
			"These dates are invalid or outside the window: "+strings.Join(bad, ", "), back)
		return
	}
	if err := store.SetBlockedDates(ctx, id, dates); err != nil {
		h.ErrLog.LogServerError(w, r, "set blocked dates failed", err, "Could not save the blocked dates.", back)
		return
	}

	h.Log.Info("blocked dates updated", zap.String("meeting_id", id.Hex()), zap.Int("count", len(dates)))
	http.Redirect(w, r, back, http.StatusSeeOther)
}
