// internal/app/features/results/plan.go
package results

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/planner"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.uber.org/zap"
)

type stopRow struct {
	Index         int
	Name          string
	Category      string
	Address       string
	StayMinutes   int
	TravelMinutes int
}

type planData struct {
	viewdata.BaseVM

	ID            string
	Name          string
	Date          string
	Weekday       string
	DDay          string
	StartTime     string
	Place         models.Place
	Course        []stopRow
	TotalMinutes  int
	TravelMinutes int
	Source        string
	IsHost        bool
}

// planFailure maps a planner error to a status and a message for the host.
// ok is false for errors that are ours rather than the input's.
func planFailure(err error) (status int, msg string, ok bool) {
	var apiErr *planner.APIError
	switch {
	case errors.Is(err, planner.ErrNoParticipants):
		return http.StatusOK, "Nobody has joined this meetup yet.", true
	case errors.Is(err, planner.ErrNoCommonDate):
		return http.StatusOK, "Nobody has picked a date yet, so there is nothing to plan.", true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The planning service took too long. Try again in a moment.", true
	case errors.As(err, &apiErr):
		msg := "The planning service could not make a plan."
		if apiErr.Message != "" {
			msg += " " + apiErr.Message
		}
		return http.StatusBadGateway, msg, true
	}
	return 0, "", false
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/results/plan                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandlePlan asks the planner for a plan from everyone's answers, stores it
// and marks the meeting planned. Planning again replaces the earlier plan.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.loadMeeting(ctx, w, r)
	if !ok {
		return
	}
	back := "/meetings/" + m.ID.Hex() + "/results"

	me, ok := auth.CurrentParticipant(r)
	if !ok || !me.IsHost {
		h.ErrLog.LogForbidden(w, r, "non-host tried to plan", nil, "Only the host can make the plan.", back)
		return
	}

	list, err := participantstore.New(h.DB).ListByMeeting(ctx, m.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list participants failed", err, "Could not load the participants.", back)
		return
	}
	req := planner.Aggregate(m, list)

	pctx, pcancel := timeouts.WithTimeout(r.Context(), timeouts.Planner(), h.Log, "plan meeting")
	plan, err := h.Planner.Plan(pctx, req)
	pcancel()
	if err != nil {
		status, msg, known := planFailure(err)
		if !known {
			h.ErrLog.LogServerError(w, r, "planner failed", err, "Could not make a plan.", back)
			return
		}
		h.Log.Warn("planning failed",
			zap.String("meeting_id", m.ID.Hex()),
			zap.Int("participants", req.ParticipantCount),
			zap.Error(err))

		data, berr := h.buildResults(ctx, r, m, "")
		if berr != nil {
			h.ErrLog.LogServerError(w, r, "build results failed", berr, "Could not load the results.", back)
			return
		}
		data.Error = template.HTML(template.HTMLEscapeString(msg))
		if status != http.StatusOK {
			w.WriteHeader(status)
		}
		templates.Render(w, r, "results", data)
		return
	}

	plan.MeetingID = m.ID
	if _, err := planstore.New(h.DB).Upsert(ctx, plan); err != nil {
		h.ErrLog.LogServerError(w, r, "store plan failed", err, "Could not save the plan.", back)
		return
	}
	if err := meetingstore.New(h.DB).SetStatus(ctx, m.ID, models.MeetingPlanned); err != nil {
		h.ErrLog.LogServerError(w, r, "set status failed", err, "Could not save the plan.", back)
		return
	}

	h.Log.Info("meeting planned",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("date", plan.CommonDate),
		zap.String("place", plan.Place.Name),
		zap.String("source", plan.Source))

	http.Redirect(w, r, back+"/plan", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/results/plan                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePlan(w http.ResponseWriter, r *http.Request) {
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

	data := planData{
		BaseVM:        viewdata.NewBaseVM(r, "Plan", back),
		ID:            m.ID.Hex(),
		Name:          m.Name,
		Date:          plan.CommonDate,
		StartTime:     plan.StartTime,
		Place:         plan.Place,
		TotalMinutes:  plan.TotalMinutes(),
		TravelMinutes: plan.TravelMinutes(),
		Source:        plan.Source,
	}
	if d, err := plan.Date(); err == nil {
		data.Weekday = d.Weekday().String()
		data.DDay = models.DDayLabel(models.DaysUntil(meetingutil.Today(h.Loc), d))
	}
	for i, s := range plan.Course {
		data.Course = append(data.Course, stopRow{
			Index:         i + 1,
			Name:          s.Name,
			Category:      s.Category,
			Address:       s.Address,
			StayMinutes:   s.StayMinutes,
			TravelMinutes: s.TravelMinutes,
		})
	}
	if me, ok := auth.CurrentParticipant(r); ok {
		data.IsHost = me.IsHost
	}

	templates.Render(w, r, "plan", data)
}
