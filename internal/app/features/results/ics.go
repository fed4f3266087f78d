// internal/app/features/results/ics.go
package results

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloudeng.io/datetime"
	ics "github.com/arran4/golang-ical"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/domain/models"
)

// ProductID identifies this application in exported calendars.
const ProductID = "-//gmg//meetup planner//EN"

// defaultEventMinutes is the event length when the course is empty.
const defaultEventMinutes = 120

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/results/plan.ics                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeICS exports the plan as a single-event iCalendar file.
func (h *Handler) ServeICS(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMeeting(ctx, w, r)
	if !ok {
		return
	}
	back := "/meetings/" + m.ID.Hex() + "/results"

	plan, err := planstore.New(h.DB).GetByMeeting(ctx, m.ID)
	if errors.Is(err, planstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "no plan yet", err, "There is no plan for this meetup yet.", back)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load plan failed", err, "Could not load the plan.", back)
		return
	}

	body, err := buildCalendar(m, plan, h.absURL(r, back+"/plan"), h.Loc, time.Now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build calendar failed", err, "Could not export the plan.", back)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=meetup_%s.ics", plan.CommonDate))
	_, _ = w.Write([]byte(body))
}

// buildCalendar serializes plan as one VEVENT. A plan with a start time gets
// a timed event lasting the whole course; one without is an all-day event.
func buildCalendar(m models.Meeting, plan models.Plan, link string, loc *time.Location, now time.Time) (string, error) {
	date, err := plan.Date()
	if err != nil {
		return "", fmt.Errorf("plan date %q: %w", plan.CommonDate, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName(m.Name)

	ev := cal.AddEvent(plan.ID.Hex() + "@gmg")
	ev.SetDtStampTime(now.UTC())
	ev.SetSummary(m.Name)
	ev.SetURL(link)

	if plan.StartTime != "" {
		var tod datetime.TimeOfDay
		if err := tod.Parse(plan.StartTime); err != nil {
			return "", fmt.Errorf("plan start time %q: %w", plan.StartTime, err)
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
		minutes := plan.TotalMinutes()
		if minutes <= 0 {
			minutes = defaultEventMinutes
		}
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Duration(minutes) * time.Minute))
	} else {
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
	}

	if plan.Place.Name != "" {
		where := plan.Place.Name
		if plan.Place.Address != "" {
			where += ", " + plan.Place.Address
		}
		ev.SetLocation(where)
		if plan.Place.Lat != 0 || plan.Place.Lng != 0 {
			ev.SetGeo(plan.Place.Lat, plan.Place.Lng)
		}
	}
	ev.SetDescription(courseText(plan))

	return cal.Serialize(), nil
}

func courseText(plan models.Plan) string {
	if len(plan.Course) == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range plan.Course {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s (%s, %d min)", i+1, s.Name, s.Category, s.StayMinutes)
	}
	fmt.Fprintf(&b, "\nTotal: %d min", plan.TotalMinutes())
	return b.String()
}
