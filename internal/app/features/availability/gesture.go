// internal/app/features/availability/gesture.go
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/calendar"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.uber.org/zap"
)

// gestureResponse is the reply to one replayed gesture.
type gestureResponse struct {
	Month         string   `json:"month"`
	Selected      []int    `json:"selected"`
	Dates         []string `json:"dates"`
	Notifications int      `json:"notifications"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/availability/gesture?month=YYYY-MM                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleGesture replays one recorded pointer gesture (a JSON array of
// calendar events) against the participant's saved selection for the month
// and stores the result. The reply carries the new selection and how many
// selection changes the gesture produced.
func (h *Handler) HandleGesture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGestureBody)
	var events []calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		h.Log.Debug("bad gesture body", zap.Error(err))
		uierrors.JSONError(w, http.StatusBadRequest, "Gesture must be a JSON array of events.")
		return
	}
	if err := calendar.ValidateEvents(events); err != nil {
		uierrors.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	lr, err := h.load(ctx, r)
	if err != nil {
		status, msg := loadStatus(err)
		if status == http.StatusInternalServerError {
			h.ErrLog.LogJSONServerError(w, r, "load availability failed", err, msg)
			return
		}
		uierrors.JSONError(w, status, msg)
		return
	}
	m, p := lr.Meeting, lr.Participant

	key, ok := h.windowMonth(m, query.Get(r, "month"))
	if !ok {
		uierrors.JSONError(w, http.StatusBadRequest, "That month is not part of this meetup.")
		return
	}
	year, month, _ := models.ParseMonthKey(key)
	disabled := meetingutil.DisabledDays(m, year, month, meetingutil.Today(h.Loc))

	// The save is conditional on the days read, so a concurrent gesture for
	// the same month is replayed on top of the other one's result.
	store := participantstore.New(h.DB)
	prev := p.DaysIn(key)
	var days []int
	var notifications int
	for attempt := 1; ; attempt++ {
		days, notifications, err = Replay(year, month, prev, disabled, events)
		if err != nil {
			uierrors.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		err = store.SwapMonthAvailability(ctx, p.ID, key, prev, days)
		if !errors.Is(err, participantstore.ErrConflict) || attempt == maxGestureAttempts {
			break
		}
		h.Log.Debug("gesture save conflict, replaying",
			zap.String("participant_id", p.ID.Hex()),
			zap.String("month", key),
			zap.Int("attempt", attempt))
		fresh, gerr := store.GetByID(ctx, p.ID)
		if gerr != nil {
			err = gerr
			break
		}
		prev = fresh.DaysIn(key)
	}
	if err != nil {
		switch {
		case errors.Is(err, participantstore.ErrNotFound):
			uierrors.JSONError(w, http.StatusForbidden, "You are no longer a participant of this meetup.")
		case errors.Is(err, participantstore.ErrConflict):
			uierrors.JSONError(w, http.StatusConflict, "Your days changed while saving. Please try again.")
		default:
			h.ErrLog.LogJSONServerError(w, r, "save availability failed", err, "Could not save your days.")
		}
		return
	}

	resp := gestureResponse{
		Month:         key,
		Selected:      days,
		Dates:         make([]string, 0, len(days)),
		Notifications: notifications,
	}
	if resp.Selected == nil {
		resp.Selected = []int{}
	}
	for _, d := range days {
		resp.Dates = append(resp.Dates, models.FormatDateKey(time.Date(year, month, d, 0, 0, 0, 0, time.UTC)))
	}

	h.Log.Debug("gesture applied",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("participant_id", p.ID.Hex()),
		zap.String("month", key),
		zap.Int("events", len(events)),
		zap.Int("notifications", notifications))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Replay runs events through a freshly mounted calendar view seeded with
// initial and returns the final selectable days and the number of selection
// notifications the gesture produced. The view is unmounted before
// returning, so a gesture without a release still ends cleanly.
func Replay(year int, month time.Month, initial []int, disabled calendar.DisabledDays, events []calendar.Event) ([]int, int, error) {
	notifications := 0
	view, err := calendar.NewView(calendar.Options{
		Year:            year,
		Month:           month,
		InitialSelected: initial,
		Disabled:        disabled,
		OnSelect:        func([]time.Time) { notifications++ },
	})
	if err != nil {
		return nil, 0, err
	}

	win := calendar.NewWindow()
	view.Mount(win)
	defer view.Unmount()

	view.Replay(events)

	// days disabled since they were saved (past or newly blocked) drop out
	return meetingutil.SelectableDays(view.Selection().Days(), disabled), notifications, nil
}

