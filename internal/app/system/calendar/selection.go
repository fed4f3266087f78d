package calendar

import (
	"slices"
	"time"
)

// Mode is the effect a gesture has on the cells it touches.
type Mode int

const (
	Idle Mode = iota
	Paint
	Erase
)

func (m Mode) String() string {
	switch m {
	case Paint:
		return "paint"
	case Erase:
		return "erase"
	default:
		return "idle"
	}
}

// SelectFunc receives the full selection, ascending, after every change.
type SelectFunc func(dates []time.Time)

// Selection is the set of selected days of one displayed month.
//
// A Selection is owned by a single View and is not safe for concurrent use.
type Selection struct {
	year     int
	month    time.Month
	days     int
	loc      *time.Location
	set      map[int]struct{}
	initial  []int
	onSelect SelectFunc
}

// NewSelection creates a selection for year/month seeded with initial.
// Days outside the month are dropped. loc may be nil (UTC).
func NewSelection(year int, month time.Month, initial []int, loc *time.Location, onSelect SelectFunc) *Selection {
	if loc == nil {
		loc = time.UTC
	}
	s := &Selection{loc: loc, onSelect: onSelect}
	s.Reset(year, month, initial)
	return s
}

// Reset replaces the selection wholesale with initial. It does not notify.
func (s *Selection) Reset(year int, month time.Month, initial []int) {
	s.year = year
	s.month = month
	s.days = DaysIn(year, month)
	s.initial = slices.Clone(initial)
	s.set = make(map[int]struct{}, len(initial))
	for _, d := range initial {
		if s.inMonth(d) {
			s.set[d] = struct{}{}
		}
	}
}

// Sync resets the selection only when year, month or initial differ from the
// inputs of the last reset. It reports whether a reset happened.
func (s *Selection) Sync(year int, month time.Month, initial []int) bool {
	if year == s.year && month == s.month && slices.Equal(initial, s.initial) {
		return false
	}
	s.Reset(year, month, initial)
	return true
}

// OnSelect replaces the notification callback.
func (s *Selection) OnSelect(fn SelectFunc) { s.onSelect = fn }

// Has reports whether day is selected.
func (s *Selection) Has(day int) bool {
	_, ok := s.set[day]
	return ok
}

// Len is the number of selected days.
func (s *Selection) Len() int { return len(s.set) }

// Year and Month identify the displayed month.
func (s *Selection) Year() int { return s.year }
func (s *Selection) Month() time.Month { return s.month }

// Apply paints or erases days. Idle is a no-op. The callback fires once if
// membership changed.
func (s *Selection) Apply(days []int, mode Mode) {
	if mode == Idle {
		return
	}
	changed := false
	for _, d := range days {
		if !s.inMonth(d) {
			continue
		}
		_, has := s.set[d]
		switch {
		case mode == Paint && !has:
			s.set[d] = struct{}{}
			changed = true
		case mode == Erase && has:
			delete(s.set, d)
			changed = true
		}
	}
	if changed && s.onSelect != nil {
		s.onSelect(s.Dates())
	}
}

// Days returns the selected day numbers in ascending order.
func (s *Selection) Days() []int {
	out := make([]int, 0, len(s.set))
	for d := range s.set {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Dates returns the selection as calendar dates at midnight, ascending.
func (s *Selection) Dates() []time.Time {
	days := s.Days()
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = time.Date(s.year, s.month, d, 0, 0, 0, 0, s.loc)
	}
	return out
}

func (s *Selection) inMonth(day int) bool {
	return day >= 1 && day <= s.days
}
