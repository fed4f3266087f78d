// internal/app/features/results/results.go
package results

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/calendar"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/normalize"
	"github.com/gmgapp/gmg/internal/app/system/planner"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
)

type bestDate struct {
	Date     string
	Weekday  string
	Count    int
	Everyone bool
}

type resultsData struct {
	viewdata.BaseVM

	ID         string
	Name       string
	Month      string
	MonthLabel string
	Prev       string
	Next       string
	Calendar   template.HTML
	Total      int
	Painted    int
	Best       []bestDate
	HasPlan    bool
	PlanDate   string
	IsHost     bool
	Error      template.HTML
}

// buildResults aggregates every participant of m and renders the heat
// calendar for the requested month.
func (h *Handler) buildResults(ctx context.Context, r *http.Request, m models.Meeting, monthRaw string) (resultsData, error) {
	list, err := participantstore.New(h.DB).ListByMeeting(ctx, m.ID)
	if err != nil {
		return resultsData{}, err
	}
	req := planner.Aggregate(m, list)

	mo := meetingutil.ResolveMonth(m, normalize.QueryParam(monthRaw), meetingutil.Today(h.Loc))
	counts := make(map[int]int)
	for key, n := range req.DateCounts {
		if !strings.HasPrefix(key, mo.Key+"-") {
			continue
		}
		d, err := models.ParseDateKey(key)
		if err != nil {
			continue
		}
		counts[d.Day()] = n
	}

	view, err := calendar.NewView(calendar.Options{
		Year:            mo.Year,
		Month:           mo.Month,
		ReadOnly:        true,
		Availability:    counts,
		MaxAvailability: len(list),
	})
	if err != nil {
		return resultsData{}, err
	}
	grid, err := view.HTML()
	if err != nil {
		return resultsData{}, err
	}

	data := resultsData{
		BaseVM:     viewdata.NewBaseVM(r, "Results", "/meetings/"+m.ID.Hex()),
		ID:         m.ID.Hex(),
		Name:       m.Name,
		Month:      mo.Key,
		MonthLabel: mo.Month.String() + " " + strconv.Itoa(mo.Year),
		Prev:       mo.Prev,
		Next:       mo.Next,
		Calendar:   grid,
		Total:      len(list),
	}
	for _, p := range list {
		if len(p.AvailableDates()) > 0 {
			data.Painted++
		}
	}
	for i, dc := range planner.RankDates(req.DateCounts) {
		if i == MaxBestDates {
			break
		}
		bd := bestDate{Date: dc.Date, Count: dc.Count, Everyone: dc.Count == len(list)}
		if d, err := models.ParseDateKey(dc.Date); err == nil {
			bd.Weekday = d.Weekday().String()
		}
		data.Best = append(data.Best, bd)
	}
	if me, ok := auth.CurrentParticipant(r); ok {
		data.IsHost = me.IsHost
	}

	plan, err := planstore.New(h.DB).GetByMeeting(ctx, m.ID)
	switch {
	case err == nil:
		data.HasPlan = true
		data.PlanDate = plan.CommonDate
	case !errors.Is(err, planstore.ErrNotFound):
		return resultsData{}, err
	}
	return data, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/results?month=YYYY-MM                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeResults shows how many participants can make each day of the month as
// a heat calendar, next to the best dates of the whole window.
func (h *Handler) ServeResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.loadMeeting(ctx, w, r)
	if !ok {
		return
	}
	data, err := h.buildResults(ctx, r, m, query.Get(r, "month"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build results failed", err, "Could not load the results.", "/meetings/"+m.ID.Hex())
		return
	}
	templates.Render(w, r, "results", data)
}
