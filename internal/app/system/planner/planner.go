// Package planner turns the availability and preferences of a meeting into a
// plan: the common date, the meeting place and a visiting course.
//
// Two backends exist. MockPlanner computes a deterministic plan locally and is
// what development and tests use. HTTPPlanner delegates to the planning
// service over JSON.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gmgapp/gmg/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Modes accepted by New.
const (
	ModeMock = "mock"
	ModeHTTP = "http"
)

var (
	// ErrNoCommonDate is returned when no participant picked any usable date.
	ErrNoCommonDate = errors.New("planner: no date is available to anyone")
	// ErrNoParticipants is returned for a request without participants.
	ErrNoParticipants = errors.New("planner: meeting has no participants")
)

// Planner computes a plan for one meeting.
type Planner interface {
	Plan(ctx context.Context, req Request) (models.Plan, error)
}

// Departure is where one participant starts from.
type Departure struct {
	Name      string          `json:"name"`
	Location  models.Location `json:"location"`
	Transport string          `json:"transport,omitempty"`
}

// Request is everything a planner needs about one meeting.
type Request struct {
	MeetingID        primitive.ObjectID `json:"meeting_id"`
	WindowStart      string             `json:"window_start"` // YYYY-MM-DD
	WindowEnd        string             `json:"window_end"`
	ParticipantCount int                `json:"participant_count"`
	DateCounts       map[string]int     `json:"date_counts"` // YYYY-MM-DD -> participants available
	Departures       []Departure        `json:"departures"`
	Categories       []string           `json:"categories"` // most requested first
}

// DateCount is one candidate date and how many participants can make it.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RankDates orders the counted dates best first: highest count, then the
// earliest date. Dates nobody picked are left out.
func RankDates(counts map[string]int) []DateCount {
	out := make([]DateCount, 0, len(counts))
	for d, c := range counts {
		if c > 0 {
			out = append(out, DateCount{Date: d, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// Config selects and configures a backend.
type Config struct {
	Mode string
	HTTP HTTPConfig
}

// New returns the backend named by cfg.Mode. An empty mode means mock.
func New(cfg Config) (Planner, error) {
	switch cfg.Mode {
	case "", ModeMock:
		return NewMockPlanner(), nil
	case ModeHTTP:
		return NewHTTPPlanner(cfg.HTTP)
	default:
		return nil, fmt.Errorf("planner: unknown mode %q", cfg.Mode)
	}
}
