// internal/app/features/meetings/new.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/formutil"
	"github.com/gmgapp/gmg/internal/app/system/htmlsanitize"
	"github.com/gmgapp/gmg/internal/app/system/inputval"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/normalize"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// createMeetingInput defines validation rules for creating a meeting.
type createMeetingInput struct {
	Name        string `validate:"notblank,max=80" label:"Meetup name"`
	HostName    string `validate:"notblank,max=40" label:"Your name"`
	Passcode    string `validate:"required,min=4,max=64" label:"Passcode"`
	WindowStart string `validate:"required,datekey" label:"First date"`
	WindowEnd   string `validate:"required,datekey" label:"Last date"`
	Description string `validate:"max=2000" label:"Description"`
}

// ServeNew renders the "New meetup" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	today := models.FormatDateKey(meetingutil.Today(h.Loc))
	data := newData{WindowStart: today, MinDate: today}
	formutil.SetBase(&data.Base, r, "New meetup", "/")
	templates.Render(w, r, "meeting_new", data)
}

// HandleCreate processes the "New meetup" form. The creator is stored as the
// first participant (the host) and remembered in this browser.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/meetings/new")
		return
	}

	name := htmlsanitize.StripTags(normalize.Name(r.FormValue("name")))
	hostName := htmlsanitize.StripTags(normalize.Name(r.FormValue("host_name")))
	passcode := r.FormValue("passcode")
	start := normalize.QueryParam(r.FormValue("window_start"))
	end := normalize.QueryParam(r.FormValue("window_end"))
	blockedRaw := strings.TrimSpace(r.FormValue("blocked"))
	description := strings.TrimSpace(r.FormValue("description"))
	today := meetingutil.Today(h.Loc)

	renderWithError := func(msg string) {
		data := newData{
			Name:        name,
			HostName:    hostName,
			WindowStart: start,
			WindowEnd:   end,
			Blocked:     blockedRaw,
			Description: description,
			MinDate:     models.FormatDateKey(today),
		}
		formutil.SetBase(&data.Base, r, "New meetup", "/")
		data.SetError(msg)
		templates.Render(w, r, "meeting_new", data)
	}

	input := createMeetingInput{
		Name:        name,
		HostName:    hostName,
		Passcode:    passcode,
		WindowStart: start,
		WindowEnd:   end,
		Description: description,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ws, _ := models.ParseDateKey(start)
	we, _ := models.ParseDateKey(end)
	switch {
	case we.Before(ws):
		renderWithError("The last date must not be before the first date.")
		return
	case ws.Before(today):
		renderWithError("The first date must not be in the past.")
		return
	case models.DaysUntil(ws, we)+1 > MaxWindowDays:
		renderWithError("Pick a window of at most " + strconv.Itoa(MaxWindowDays) + " days.")
		return
	}

	m := models.Meeting{
		Name:        name,
		HostName:    hostName,
		Description: htmlsanitize.Sanitize(description),
		WindowStart: ws,
		WindowEnd:   we,
	}
	blocked, bad := meetingutil.ParseDateList(blockedRaw, m)
	if len(bad) > 0 {
		renderWithError("These blocked dates are invalid or outside the window: " + strings.Join(bad, ", "))
		return
	}
	m.BlockedDates = blocked

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash passcode failed", err, "Could not create the meetup.", "/meetings/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	meetings := meetingstore.New(h.DB)
	m, err = meetings.Create(ctx, m)
	if err != nil {
		if errors.Is(err, meetingstore.ErrDuplicateInviteCode) {
			renderWithError("Could not allocate an invite code. Please try again.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create meeting failed", err, "Database error while creating the meetup.", "/meetings/new")
		return
	}

	host, err := participantstore.New(h.DB).Create(ctx, models.Participant{
		MeetingID:    m.ID,
		Name:         hostName,
		PasscodeHash: hash,
		IsHost:       true,
	})
	if err != nil {
		// without a host the meeting is unreachable
		if _, derr := meetings.DeleteByIDs(ctx, []primitive.ObjectID{m.ID}); derr != nil {
			h.Log.Warn("rollback of meeting failed", zap.String("meeting_id", m.ID.Hex()), zap.Error(derr))
		}
		h.ErrLog.LogServerError(w, r, "create host participant failed", err, "Database error while creating the meetup.", "/meetings/new")
		return
	}

	if err := h.SM.Remember(w, r, m.ID, host.ID); err != nil {
		h.Log.Warn("remember host failed", zap.String("meeting_id", m.ID.Hex()), zap.Error(err))
	}

	h.Log.Info("meeting created",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("invite_code", m.InviteCode),
		zap.Int("window_days", models.DaysUntil(ws, we)+1))

	http.Redirect(w, r, "/meetings/"+m.ID.Hex(), http.StatusSeeOther)
}
