// internal/app/features/home/root.go
package home

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// meetingRow is one entry of the "my meetings" list.
type meetingRow struct {
	ID           string
	Name         string
	HostName     string
	Planned      bool
	TargetDate   string // plan date when planned, else window start
	DDay         int
	DDayLabel    string
	Participants int64
}

type homeData struct {
	viewdata.BaseVM
	Meetings []meetingRow
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing + my meetings                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{BaseVM: viewdata.NewBaseVM(r, "Welcome", "/")}

	ids := h.SM.JoinedMeetings(r)
	if len(ids) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		meetings, err := meetingstore.New(h.DB).ListByIDs(ctx, ids)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list joined meetings failed", err, "Could not load your meetings.", "/")
			return
		}
		counts, err := meetingutil.ParticipantCounts(ctx, h.DB, ids)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "participant counts failed", err, "Could not load your meetings.", "/")
			return
		}
		plans, err := planstore.New(h.DB).ListByMeetings(ctx, ids)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list plans failed", err, "Could not load your meetings.", "/")
			return
		}

		// meetings cleaned up since the cookie was set simply drop out
		if len(meetings) < len(ids) {
			h.Log.Debug("joined meetings missing from store",
				zap.Int("joined", len(ids)), zap.Int("found", len(meetings)))
		}

		data.Meetings = buildRows(meetings, plans, counts, time.Now().In(h.Loc))
	}

	templates.Render(w, r, "home", data)
}

func buildRows(meetings []models.Meeting, plans map[primitive.ObjectID]models.Plan, counts map[primitive.ObjectID]int64, now time.Time) []meetingRow {
	rows := make([]meetingRow, 0, len(meetings))
	for _, m := range meetings {
		target := m.WindowStart
		plan, planned := plans[m.ID]
		if planned {
			if d, err := plan.Date(); err == nil {
				target = d
			} else {
				planned = false
			}
		}
		days := models.DaysUntil(now, target)
		rows = append(rows, meetingRow{
			ID:           m.ID.Hex(),
			Name:         m.Name,
			HostName:     m.HostName,
			Planned:      planned,
			TargetDate:   models.FormatDateKey(target),
			DDay:         days,
			DDayLabel:    models.DDayLabel(days),
			Participants: counts[m.ID],
		})
	}
	sortByDDay(rows)
	return rows
}

// sortByDDay puts upcoming meetings first, soonest first, then past meetings,
// most recent first. Ties keep name order.
func sortByDDay(rows []meetingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		aPast, bPast := a.DDay < 0, b.DDay < 0
		if aPast != bPast {
			return !aPast
		}
		if a.DDay != b.DDay {
			if aPast {
				return a.DDay > b.DDay
			}
			return a.DDay < b.DDay
		}
		return a.Name < b.Name
	})
}
