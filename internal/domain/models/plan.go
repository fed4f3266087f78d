// internal/domain/models/plan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stop is one place on the visiting course.
type Stop struct {
	Name          string  `bson:"name" json:"name"`
	Category      string  `bson:"category" json:"category"`
	Address       string  `bson:"address,omitempty" json:"address,omitempty"`
	Lat           float64 `bson:"lat" json:"lat"`
	Lng           float64 `bson:"lng" json:"lng"`
	StayMinutes   int     `bson:"stay_minutes" json:"stay_minutes"`
	TravelMinutes int     `bson:"travel_minutes" json:"travel_minutes"` // from the previous stop
}

// Place is where the group meets.
type Place struct {
	Name    string  `bson:"name" json:"name"`
	Address string  `bson:"address,omitempty" json:"address,omitempty"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
}

// Plan is the outcome computed by the planning backend for one meeting.
type Plan struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	MeetingID  primitive.ObjectID `bson:"meeting_id" json:"meeting_id"`
	CommonDate string             `bson:"common_date" json:"common_date"` // YYYY-MM-DD
	StartTime  string             `bson:"start_time,omitempty" json:"start_time,omitempty"`
	Place      Place              `bson:"place" json:"place"`
	Course     []Stop             `bson:"course" json:"course"`
	Source     string             `bson:"source" json:"source"` // mock | http
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// TotalMinutes sums stay and travel time over the whole course.
func (p Plan) TotalMinutes() int {
	total := 0
	for _, s := range p.Course {
		total += s.StayMinutes + s.TravelMinutes
	}
	return total
}

// TravelMinutes sums only the travel legs.
func (p Plan) TravelMinutes() int {
	total := 0
	for _, s := range p.Course {
		total += s.TravelMinutes
	}
	return total
}

// Date parses CommonDate.
func (p Plan) Date() (time.Time, error) {
	return ParseDateKey(p.CommonDate)
}
