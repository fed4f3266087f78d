// internal/domain/models/participant.go
package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transport modes a participant can travel with.
const (
	TransportTransit = "transit"
	TransportCar     = "car"
	TransportWalk    = "walk"
	TransportBike    = "bike"
)

// TransportModes lists the accepted transport modes in display order.
var TransportModes = []string{TransportTransit, TransportCar, TransportWalk, TransportBike}

// Categories participants can prefer for the visiting course.
var Categories = []string{"cafe", "restaurant", "bar", "culture", "shopping", "park", "activity"}

// Location is a named point participants depart from or meet at.
type Location struct {
	Label string  `bson:"label" json:"label"`
	Lat   float64 `bson:"lat" json:"lat"`
	Lng   float64 `bson:"lng" json:"lng"`
}

// IsZero reports whether no location was entered.
func (l Location) IsZero() bool {
	return l.Label == "" && l.Lat == 0 && l.Lng == 0
}

// Participant is one person taking part in a meeting.
//
// Availability is keyed by month ("2006-01") and holds the selected day
// numbers of that month in ascending order.
type Participant struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	MeetingID    primitive.ObjectID `bson:"meeting_id" json:"meeting_id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"name_ci"`
	PasscodeHash []byte             `bson:"passcode_hash,omitempty" json:"-"`
	IsHost       bool               `bson:"is_host" json:"is_host"`

	Departure  Location `bson:"departure" json:"departure"`
	Transport  string   `bson:"transport,omitempty" json:"transport,omitempty"`
	Categories []string `bson:"categories,omitempty" json:"categories,omitempty"`

	Availability map[string][]int `bson:"availability,omitempty" json:"availability,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DaysIn returns the selected days for a month key.
func (p Participant) DaysIn(monthKey string) []int {
	return slices.Clone(p.Availability[monthKey])
}

// AvailableDates flattens availability into date keys ("2006-01-02"), ascending.
func (p Participant) AvailableDates() []string {
	var out []string
	for key, days := range p.Availability {
		year, month, err := ParseMonthKey(key)
		if err != nil {
			continue
		}
		for _, d := range days {
			out = append(out, FormatDateKey(time.Date(year, month, d, 0, 0, 0, 0, time.UTC)))
		}
	}
	slices.Sort(out)
	return out
}

// HasPreferences reports whether departure and transport were filled in.
func (p Participant) HasPreferences() bool {
	return !p.Departure.IsZero() && p.Transport != ""
}
