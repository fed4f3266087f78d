package planner

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/gmgapp/gmg/internal/domain/models"
)

const (
	// MaxStops bounds the visiting course.
	MaxStops = 3
	// legMinutes is the walk between two stops of the course.
	legMinutes = 10
	// defaultStartTime is when the mock plan starts on the common date.
	defaultStartTime = "18:00"
)

// stations is the fixed table of meeting places the mock chooses from.
var stations = []models.Place{
	{Name: "Gangnam Station", Address: "396 Gangnam-daero, Gangnam-gu, Seoul", Lat: 37.4979, Lng: 127.0276},
	{Name: "Hongik Univ. Station", Address: "160 Yanghwa-ro, Mapo-gu, Seoul", Lat: 37.5572, Lng: 126.9245},
	{Name: "Jamsil Station", Address: "265 Olympic-ro, Songpa-gu, Seoul", Lat: 37.5133, Lng: 127.1001},
	{Name: "Seoul Station", Address: "405 Hangang-daero, Yongsan-gu, Seoul", Lat: 37.5547, Lng: 126.9707},
	{Name: "Konkuk Univ. Station", Address: "243 Neungdong-ro, Gwangjin-gu, Seoul", Lat: 37.5404, Lng: 127.0692},
	{Name: "Yeouido Station", Address: "40 Yeoui-daero, Yeongdeungpo-gu, Seoul", Lat: 37.5216, Lng: 126.9243},
	{Name: "Sinchon Station", Address: "90 Sinchon-ro, Seodaemun-gu, Seoul", Lat: 37.5552, Lng: 126.9368},
}

// stayMinutes is how long the course lingers at each kind of stop.
var stayMinutes = map[string]int{
	"cafe":       60,
	"restaurant": 80,
	"bar":        90,
	"culture":    90,
	"shopping":   60,
	"park":       45,
	"activity":   90,
}

var stopNames = map[string]string{
	"cafe":       "Corner Cafe",
	"restaurant": "Neighbourhood Bistro",
	"bar":        "Rooftop Bar",
	"culture":    "City Gallery",
	"shopping":   "Underground Mall",
	"park":       "Riverside Park",
	"activity":   "Board Game Lounge",
}

// defaultCourse is used when nobody asked for anything.
var defaultCourse = []string{"restaurant", "cafe"}

// MockPlanner computes a deterministic plan without leaving the process.
type MockPlanner struct {
	now func() time.Time
}

func NewMockPlanner() *MockPlanner {
	return &MockPlanner{now: time.Now}
}

// Plan picks the best-ranked date, the station closest to the centre of all
// departures and a course built from the most requested categories.
func (m *MockPlanner) Plan(ctx context.Context, req Request) (models.Plan, error) {
	if err := ctx.Err(); err != nil {
		return models.Plan{}, err
	}
	if req.ParticipantCount == 0 {
		return models.Plan{}, ErrNoParticipants
	}
	ranked := RankDates(req.DateCounts)
	if len(ranked) == 0 {
		return models.Plan{}, ErrNoCommonDate
	}

	place := NearestStation(Centroid(req.Departures))

	return models.Plan{
		MeetingID:  req.MeetingID,
		CommonDate: ranked[0].Date,
		StartTime:  defaultStartTime,
		Place:      place,
		Course:     buildCourse(place, req.Categories),
		Source:     ModeMock,
		CreatedAt:  m.now().UTC(),
	}, nil
}

// Centroid is the mean position of the departures. With no departures it is
// Seoul Station.
func Centroid(deps []Departure) models.Location {
	var lat, lng float64
	n := 0
	for _, d := range deps {
		if d.Location.Lat == 0 && d.Location.Lng == 0 {
			continue
		}
		lat += d.Location.Lat
		lng += d.Location.Lng
		n++
	}
	if n == 0 {
		s := stations[3]
		return models.Location{Label: s.Name, Lat: s.Lat, Lng: s.Lng}
	}
	return models.Location{Label: "centroid", Lat: lat / float64(n), Lng: lng / float64(n)}
}

// NearestStation returns the station closest to loc.
func NearestStation(loc models.Location) models.Place {
	best := stations[0]
	bestDist := math.Inf(1)
	for _, s := range stations {
		d := distanceKm(loc.Lat, loc.Lng, s.Lat, s.Lng)
		if d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// distanceKm is the great-circle distance between two points.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func buildCourse(place models.Place, categories []string) []models.Stop {
	var picked []string
	for _, c := range categories {
		if _, ok := stayMinutes[c]; ok && !slices.Contains(picked, c) {
			picked = append(picked, c)
		}
		if len(picked) == MaxStops {
			break
		}
	}
	if len(picked) == 0 {
		picked = defaultCourse
	}

	course := make([]models.Stop, 0, len(picked))
	for i, c := range picked {
		travel := legMinutes
		if i == 0 {
			travel = 0
		}
		course = append(course, models.Stop{
			Name:          stopNames[c],
			Category:      c,
			Address:       "near " + place.Name,
			Lat:           place.Lat,
			Lng:           place.Lng,
			StayMinutes:   stayMinutes[c],
			TravelMinutes: travel,
		})
	}
	return course
}
