// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting statuses.
const (
	MeetingCollecting = "collecting"
	MeetingPlanned    = "planned"
)

// Meeting is a gathering the host is trying to schedule.
//
// NOTE:
//   - Participants are stored in their own collection keyed by meeting_id.
//   - WindowStart/WindowEnd bound the dates participants can paint; both are
//     midnight UTC and inclusive.
type Meeting struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"` // sanitized HTML
	HostName    string             `bson:"host_name" json:"host_name"`
	InviteCode  string             `bson:"invite_code" json:"invite_code"`

	WindowStart  time.Time `bson:"window_start" json:"window_start"`
	WindowEnd    time.Time `bson:"window_end" json:"window_end"`
	BlockedDates []string  `bson:"blocked_dates,omitempty" json:"blocked_dates,omitempty"` // YYYY-MM-DD

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InWindow reports whether the calendar date of t falls inside the window.
func (m Meeting) InWindow(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(m.WindowStart)) && !d.After(DateOf(m.WindowEnd))
}

// IsBlocked reports whether the host blocked the date.
func (m Meeting) IsBlocked(t time.Time) bool {
	key := FormatDateKey(t)
	for _, b := range m.BlockedDates {
		if b == key {
			return true
		}
	}
	return false
}

// Months lists the month keys the window touches, in order.
func (m Meeting) Months() []string {
	var out []string
	cur := time.Date(m.WindowStart.Year(), m.WindowStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(m.WindowEnd.Year(), m.WindowEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		out = append(out, FormatMonthKey(cur.Year(), cur.Month()))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
