// Package meetingutil holds the helpers the meeting pages share: resolving the
// meeting in the URL, picking the displayed month and working out which days
// of that month can be painted.
package meetingutil

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gmgapp/gmg/internal/app/system/calendar"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadID is returned when the {id} URL parameter is not an ObjectID.
var ErrBadID = errors.New("meetingutil: invalid meeting id")

// IDFromURL parses the {id} URL parameter.
func IDFromURL(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, ErrBadID
	}
	return id, nil
}

// Month is the month a calendar page shows.
type Month struct {
	Year  int
	Month time.Month
	Key   string // YYYY-MM
	Prev  string // empty when outside the window
	Next  string
}

// ResolveMonth picks the month to display. A requested key is honoured when
// the window touches that month; otherwise the month of today is used when it
// lies inside the window, else the window's first month.
func ResolveMonth(m models.Meeting, requested string, today time.Time) Month {
	months := m.Months()
	key := ""
	if requested != "" {
		for _, mk := range months {
			if mk == requested {
				key = mk
				break
			}
		}
	}
	if key == "" {
		key = months[0]
		if m.InWindow(today) {
			key = models.FormatMonthKey(today.Year(), today.Month())
		}
	}

	year, month, _ := models.ParseMonthKey(key)
	out := Month{Year: year, Month: month, Key: key}
	prev, next := models.AdjacentMonthKeys(year, month)
	for _, mk := range months {
		if mk == prev {
			out.Prev = prev
		}
		if mk == next {
			out.Next = next
		}
	}
	return out
}

// DisabledDays lists the days of year/month that cannot be selected for m:
// days outside the window, days before today and days the host blocked.
func DisabledDays(m models.Meeting, year int, month time.Month, today time.Time) calendar.DisabledDays {
	disabled := make(calendar.DisabledDays)
	todayDate := models.DateOf(today)
	n := calendar.DaysIn(year, month)
	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		if !m.InWindow(date) || date.Before(todayDate) || m.IsBlocked(date) {
			disabled[d] = true
		}
	}
	return disabled
}

// SelectableDays filters days down to the ones DisabledDays leaves enabled.
func SelectableDays(days []int, disabled calendar.DisabledDays) []int {
	var out []int
	for _, d := range days {
		if !disabled[d] {
			out = append(out, d)
		}
	}
	return out
}

// ParseDateList splits a comma, space or newline separated list of
// "2006-01-02" dates. Dates outside m's window are returned in bad along with
// unparseable entries. The good dates come back sorted and de-duplicated.
func ParseDateList(raw string, m models.Meeting) (dates, bad []string) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	for _, f := range fields {
		d, err := models.ParseDateKey(f)
		if err != nil || !m.InWindow(d) {
			bad = append(bad, f)
			continue
		}
		dates = append(dates, models.FormatDateKey(d))
	}
	slices.Sort(dates)
	return slices.Compact(dates), bad
}

// Today is the calendar date of now in loc, as midnight UTC.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return models.DateOf(time.Now().In(loc))
}
