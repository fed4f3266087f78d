// internal/app/features/join/join.go
package join

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/formutil"
	"github.com/gmgapp/gmg/internal/app/system/htmlsanitize"
	"github.com/gmgapp/gmg/internal/app/system/inputval"
	"github.com/gmgapp/gmg/internal/app/system/navigation"
	"github.com/gmgapp/gmg/internal/app/system/normalize"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// joinInput defines validation rules for the join form.
type joinInput struct {
	Name     string `validate:"notblank,max=40" label:"Your name"`
	Passcode string `validate:"required,min=4,max=64" label:"Passcode"`
}

type joinData struct {
	formutil.Base

	Code        string
	MeetingName string
	HostName    string
	WindowStart string
	WindowEnd   string
	Name        string
	Return      string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /join?code=  – invite code box on the landing page                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLookup(w http.ResponseWriter, r *http.Request) {
	code := normalize.InviteCode(query.Get(r, "code"))
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/join/"+url.PathEscape(code), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /join/{code}                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMeeting(ctx, w, r)
	if !ok {
		return
	}

	// already joined on this device
	if _, joined := h.SM.ParticipantFor(r, m.ID); joined {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.MeetingBackURL(m.ID.Hex())), http.StatusSeeOther)
		return
	}

	data := h.newJoinData(r, m)
	templates.Render(w, r, "join", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /join/{code}                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleJoin adds the browser to the meeting. A name not yet taken creates a
// new participant; a taken name is a returning participant and must present
// the passcode chosen at first join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.loadMeeting(ctx, w, r)
	if !ok {
		return
	}

	name := htmlsanitize.StripTags(normalize.Name(r.FormValue("name")))
	passcode := r.FormValue("passcode")

	renderWithError := func(status int, msg string) {
		data := h.newJoinData(r, m)
		data.Name = name
		data.SetError(msg)
		if status != http.StatusOK {
			w.WriteHeader(status)
		}
		templates.Render(w, r, "join", data)
	}

	if h.Limiter != nil {
		if allowed, msg := h.Limiter.Check(r, m.InviteCode, name); !allowed {
			h.Log.Info("join rate limited",
				zap.String("meeting_id", m.ID.Hex()),
				zap.String("name", name))
			renderWithError(http.StatusTooManyRequests, msg)
			return
		}
	}

	if result := inputval.Validate(joinInput{Name: name, Passcode: passcode}); result.HasErrors() {
		renderWithError(http.StatusOK, result.First())
		return
	}

	participants := participantstore.New(h.DB)
	p, err := participants.GetByName(ctx, m.ID, name)
	switch {
	case err == nil:
		if len(p.PasscodeHash) == 0 || bcrypt.CompareHashAndPassword(p.PasscodeHash, []byte(passcode)) != nil {
			h.Log.Info("join passcode mismatch",
				zap.String("meeting_id", m.ID.Hex()),
				zap.String("participant_id", p.ID.Hex()))
			renderWithError(http.StatusOK, "That name is taken. Enter its passcode to continue, or pick another name.")
			return
		}
	case errors.Is(err, participantstore.ErrNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if herr != nil {
			h.ErrLog.LogServerError(w, r, "hash passcode failed", herr, "Could not join the meetup.", "/")
			return
		}
		p, err = participants.Create(ctx, models.Participant{MeetingID: m.ID, Name: name, PasscodeHash: hash})
		if errors.Is(err, participantstore.ErrDuplicateName) {
			// lost a race with someone picking the same name
			renderWithError(http.StatusOK, "That name was just taken. Please pick another.")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "create participant failed", err, "Database error while joining.", "/")
			return
		}
		h.Log.Info("participant joined",
			zap.String("meeting_id", m.ID.Hex()),
			zap.String("participant_id", p.ID.Hex()))
	default:
		h.ErrLog.LogServerError(w, r, "lookup participant failed", err, "Database error while joining.", "/")
		return
	}

	if err := h.SM.Remember(w, r, m.ID, p.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "remember participant failed", err, "Could not remember this meetup on this device.", "/")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetName(m.InviteCode, name)
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.MeetingBackURL(m.ID.Hex())), http.StatusSeeOther)
}

func (h *Handler) loadMeeting(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Meeting, bool) {
	code := normalize.InviteCode(chi.URLParam(r, "code"))
	m, err := meetingstore.New(h.DB).GetByInviteCode(ctx, code)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "invite code not found", err, "That invite code does not match any meetup.", "/")
		return models.Meeting{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting by code failed", err, "Could not load the meetup.", "/")
		return models.Meeting{}, false
	}
	return m, true
}

func (h *Handler) newJoinData(r *http.Request, m models.Meeting) joinData {
	data := joinData{
		Code:        m.InviteCode,
		MeetingName: m.Name,
		HostName:    m.HostName,
		WindowStart: models.FormatDateKey(m.WindowStart),
		WindowEnd:   models.FormatDateKey(m.WindowEnd),
		Return:      query.Get(r, "return"),
	}
	formutil.SetBase(&data.Base, r, "Join "+m.Name, "/")
	return data
}
