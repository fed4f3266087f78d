// internal/app/features/meetings/overview.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/app/system/auth"
	"github.com/gmgapp/gmg/internal/app/system/htmlsanitize"
	"github.com/gmgapp/gmg/internal/app/system/meetingutil"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
	"github.com/gmgapp/gmg/internal/domain/models"
)

// ServeOverview renders the meeting page: details, invite link and the
// roster with each participant's progress. Visitors who have not joined see
// only the details and a join button.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	id, err := meetingutil.IDFromURL(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting link.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := meetingstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, "This meetup does not exist or has expired.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting failed", err, "Could not load the meetup.", "/")
		return
	}

	data := overviewData{
		BaseVM:      viewdata.NewBaseVM(r, m.Name, "/"),
		ID:          m.ID.Hex(),
		Name:        m.Name,
		HostName:    m.HostName,
		Description: htmlsanitize.PrepareForDisplay(m.Description),
		WindowStart: models.FormatDateKey(m.WindowStart),
		WindowEnd:   models.FormatDateKey(m.WindowEnd),
		Blocked:     m.BlockedDates,
		Status:      m.Status,
		Planned:     m.Status == models.MeetingPlanned,
		InviteCode:  m.InviteCode,
		InviteURL:   h.inviteURL(r, m.InviteCode),
	}

	me, joined := auth.CurrentParticipant(r)
	if joined {
		list, err := participantstore.New(h.DB).ListByMeeting(ctx, m.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list participants failed", err, "Could not load the participants.", "/")
			return
		}
		for _, p := range list {
			row := participantRow{
				Name:         p.Name,
				IsHost:       p.IsHost,
				IsYou:        p.ID == me.ID,
				PaintedDays:  len(p.AvailableDates()),
				HasPrefs:     p.HasPreferences(),
				Transport:    p.Transport,
				Departure:    p.Departure.Label,
				CategoryList: strings.Join(p.Categories, ", "),
			}
			if row.PaintedDays > 0 {
				data.Painted++
			}
			if row.HasPrefs {
				data.WithPrefs++
			}
			data.Participants = append(data.Participants, row)
		}
		data.Total = len(list)
	}

	templates.Render(w, r, "meeting_view", data)
}

func (h *Handler) inviteURL(r *http.Request, code string) string {
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + code
}
