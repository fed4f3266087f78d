// internal/app/features/availability/page.go
package availability

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/calendar"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/normalize"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.uber.org/zap"
)

type dayOption struct {
	Day      int
	Selected bool
	Disabled bool
}

type calendarData struct {
	viewdata.BaseVM

	ID         string
	Name       string
	Month      string // YYYY-MM
	MonthLabel string
	Prev       string
	Next       string
	Calendar   template.HTML
	Selected   int
	Days       []dayOption
	GestureURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/availability?month=YYYY-MM                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCalendar renders the interactive calendar for one month of the window,
// seeded with the participant's saved days.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	lr, err := h.load(ctx, r)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	m, p := lr.Meeting, lr.Participant
	back := "/meetings/" + m.ID.Hex()

	today := meetingutil.Today(h.Loc)
	mo := meetingutil.ResolveMonth(m, normalize.QueryParam(query.Get(r, "month")), today)
	disabled := meetingutil.DisabledDays(m, mo.Year, mo.Month, today)

	view, err := calendar.NewView(calendar.Options{
		Year:            mo.Year,
		Month:           mo.Month,
		InitialSelected: p.DaysIn(mo.Key),
		Disabled:        disabled,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build calendar failed", err, "Could not show the calendar.", back)
		return
	}
	grid, err := view.HTML()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render calendar failed", err, "Could not show the calendar.", back)
		return
	}

	data := calendarData{
		BaseVM:     viewdata.NewBaseVM(r, "My availability", back),
		ID:         m.ID.Hex(),
		Name:       m.Name,
		Month:      mo.Key,
		MonthLabel: mo.Month.String() + " " + strconv.Itoa(mo.Year),
		Prev:       mo.Prev,
		Next:       mo.Next,
		Calendar:   grid,
		Selected:   view.Selection().Len(),
		GestureURL: "/meetings/" + m.ID.Hex() + "/availability/gesture?month=" + mo.Key,
	}
	for d := 1; d <= calendar.DaysIn(mo.Year, mo.Month); d++ {
		data.Days = append(data.Days, dayOption{Day: d, Selected: view.Selection().Has(d), Disabled: disabled[d]})
	}

	templates.Render(w, r, "availability_calendar", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/availability  – form fallback without script            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleForm replaces the month's selection with the checked days. Disabled
// and out-of-month days are dropped silently, as the calendar would.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	lr, err := h.load(ctx, r)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	m, p := lr.Meeting, lr.Participant
	back := "/meetings/" + m.ID.Hex() + "/availability"

	key, ok := h.windowMonth(m, r.FormValue("month"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "month outside window", nil, "That month is not part of this meetup.", back)
		return
	}
	year, month, _ := models.ParseMonthKey(key)
	disabled := meetingutil.DisabledDays(m, year, month, meetingutil.Today(h.Loc))

	var days []int
	for _, raw := range r.Form["day"] {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > calendar.DaysIn(year, month) {
			continue
		}
		days = append(days, d)
	}
	days = meetingutil.SelectableDays(days, disabled)

	if err := participantstore.New(h.DB).SetMonthAvailability(ctx, p.ID, key, days); err != nil {
		h.ErrLog.LogServerError(w, r, "save availability failed", err, "Could not save your days.", back)
		return
	}
	h.Log.Debug("availability saved from form",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("participant_id", p.ID.Hex()),
		zap.String("month", key),
		zap.Int("days", len(days)))

	http.Redirect(w, r, back+"?month="+key, http.StatusSeeOther)
}

// windowMonth validates a month key against the meeting window.
func (h *Handler) windowMonth(m models.Meeting, raw string) (string, bool) {
	key := normalize.QueryParam(raw)
	if _, _, err := models.ParseMonthKey(key); err != nil {
		return "", false
	}
	for _, mk := range m.Months() {
		if mk == key {
			return key, true
		}
	}
	return "", false
}
