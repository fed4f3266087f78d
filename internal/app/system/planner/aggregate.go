package planner

import (
	"sort"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gmgapp/gmg/internal/domain/models"
)

// Aggregate builds the planning request for m from its participants.
//
// Only dates inside the meeting window that the host did not block are
// counted, so stale selections from an older window never win. Categories
// are ordered by how many participants asked for them, then by name.
func Aggregate(m models.Meeting, participants []models.Participant) Request {
	req := Request{
		MeetingID:        m.ID,
		WindowStart:      models.FormatDateKey(m.WindowStart),
		WindowEnd:        models.FormatDateKey(m.WindowEnd),
		ParticipantCount: len(participants),
		DateCounts:       make(map[string]int),
	}

	catVotes := make(map[string]int)
	for _, p := range participants {
		seen := make(map[string]bool)
		for _, key := range p.AvailableDates() {
			d, err := models.ParseDateKey(key)
			if err != nil || seen[key] || !m.InWindow(d) || m.IsBlocked(d) {
				continue
			}
			seen[key] = true
			req.DateCounts[key]++
		}

		if !p.Departure.IsZero() {
			req.Departures = append(req.Departures, Departure{
				Name:      p.Name,
				Location:  p.Departure,
				Transport: p.Transport,
			})
		}

		voted := make(map[string]bool)
		for _, c := range p.Categories {
			c = text.Fold(c)
			if c == "" || voted[c] {
				continue
			}
			voted[c] = true
			catVotes[c]++
		}
	}

	for c := range catVotes {
		req.Categories = append(req.Categories, c)
	}
	sort.Slice(req.Categories, func(i, j int) bool {
		a, b := req.Categories[i], req.Categories[j]
		if catVotes[a] != catVotes[b] {
			return catVotes[a] > catVotes[b]
		}
		return a < b
	})
	return req
}
