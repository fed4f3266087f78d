// internal/app/features/preferences/preferences.go
package preferences

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/formutil"
	"github.com/gmgapp/gmg/internal/app/system/htmlsanitize"
	"github.com/gmgapp/gmg/internal/app/system/inputval"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/normalize"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.uber.org/zap"
)

// MaxCategories bounds how many categories one participant may pick.
const MaxCategories = 3

// prefsInput defines validation rules for the preferences form.
type prefsInput struct {
	Label      string   `validate:"notblank,max=80" label:"Departure"`
	Lat        string   `validate:"omitempty,latitude" label:"Latitude"`
	Lng        string   `validate:"omitempty,longitude" label:"Longitude"`
	Transport  string   `validate:"required,transport" label:"Transport"`
	Categories []string `validate:"max=3,categories" label:"Categories"`
}

type option struct {
	Value   string
	Checked bool
}

type prefsData struct {
	formutil.Base

	ID          string
	MeetingName string
	Label       string
	Lat         string
	Lng         string
	Transports  []option
	Categories  []option
	Max         int
}

func (h *Handler) newData(r *http.Request, m models.Meeting, transport string, cats []string) prefsData {
	data := prefsData{ID: m.ID.Hex(), MeetingName: m.Name, Max: MaxCategories}
	formutil.SetBase(&data.Base, r, "My preferences", "/meetings/"+m.ID.Hex())
	for _, t := range models.TransportModes {
		data.Transports = append(data.Transports, option{Value: t, Checked: t == transport})
	}
	for _, c := range models.Categories {
		data.Categories = append(data.Categories, option{Value: c, Checked: slices.Contains(cats, c)})
	}
	return data
}

// load fetches the meeting in the URL and the current participant's record,
// rendering an error page itself when it fails.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Meeting, models.Participant, bool) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting link.", "/")
		return models.Meeting{}, models.Participant{}, false
	}
	me, ok := auth.CurrentParticipant(r)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "not a participant", nil, "Join this meetup first.", "/")
		return models.Meeting{}, models.Participant{}, false
	}

	m, err := meetingstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, "This meetup does not exist or has expired.", "/")
		return models.Meeting{}, models.Participant{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting failed", err, "Could not load the meetup.", "/")
		return models.Meeting{}, models.Participant{}, false
	}

	p, err := participantstore.New(h.DB).GetByID(ctx, me.ID)
	if errors.Is(err, participantstore.ErrNotFound) {
		h.ErrLog.LogForbidden(w, r, "participant gone", err, "You are no longer a participant of this meetup.", "/")
		return models.Meeting{}, models.Participant{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load participant failed", err, "Could not load your answers.", "/meetings/"+id.Hex())
		return models.Meeting{}, models.Participant{}, false
	}
	return m, p, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/preferences                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	data := h.newData(r, m, p.Transport, p.Categories)
	data.Label = p.Departure.Label
	if p.Departure.Lat != 0 || p.Departure.Lng != 0 {
		data.Lat = formatCoord(p.Departure.Lat)
		data.Lng = formatCoord(p.Departure.Lng)
	}
	templates.Render(w, r, "preferences", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/preferences                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	in := prefsInput{
		Label:      htmlsanitize.StripTags(normalize.Name(r.FormValue("departure"))),
		Lat:        normalize.QueryParam(r.FormValue("lat")),
		Lng:        normalize.QueryParam(r.FormValue("lng")),
		Transport:  normalize.Lower(r.FormValue("transport")),
		Categories: normalize.Keywords(r.Form["category"]),
	}

	renderWithError := func(msg string) {
		data := h.newData(r, m, in.Transport, in.Categories)
		data.Label, data.Lat, data.Lng = in.Label, in.Lat, in.Lng
		data.SetError(msg)
		templates.Render(w, r, "preferences", data)
	}

	if res := inputval.Validate(in); res.HasErrors() {
		renderWithError(res.First())
		return
	}
	if (in.Lat == "") != (in.Lng == "") {
		renderWithError("Enter both latitude and longitude, or neither.")
		return
	}

	dep := models.Location{Label: in.Label}
	if in.Lat != "" {
		// both already checked by the latitude/longitude rules
		dep.Lat, _ = strconv.ParseFloat(in.Lat, 64)
		dep.Lng, _ = strconv.ParseFloat(in.Lng, 64)
	}

	err := participantstore.New(h.DB).UpdatePreferences(ctx, p.ID, participantstore.Preferences{
		Departure:  dep,
		Transport:  in.Transport,
		Categories: in.Categories,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update preferences failed", err, "Could not save your preferences.", "/meetings/"+m.ID.Hex())
		return
	}

	h.Log.Info("preferences saved",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("participant_id", p.ID.Hex()),
		zap.String("transport", in.Transport),
		zap.Int("categories", len(in.Categories)))

	http.Redirect(w, r, "/meetings/"+m.ID.Hex(), http.StatusSeeOther)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
