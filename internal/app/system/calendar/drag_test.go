package calendar_test

import (
	"slices"
	"testing"
	"time"

	"github.com/gmgapp/gmg/internal/app/system/calendar"
)

// recorder collects every onSelect notification.
type recorder struct {
	calls [][]time.Time
}

func (r *recorder) onSelect(dates []time.Time) {
	r.calls = append(r.calls, dates)
}

func (r *recorder) last() []time.Time {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func newOctoberView(t *testing.T, initial []int, disabled calendar.DisabledDays, rec *recorder) *calendar.View {
	t.Helper()
	v, err := calendar.NewView(calendar.Options{
		Year:            2025,
		Month:           time.October,
		InitialSelected: initial,
		Disabled:        disabled,
		OnSelect:        rec.onSelect,
	})
	if err != nil {
		t.Fatalf("NewView failed: %v", err)
	}
	return v
}

func drag(v *calendar.View, from, to int) {
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: from})
	for d := from + 1; d <= to; d++ {
		v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: d})
	}
	v.Dispatch(calendar.Event{Type: calendar.EventUp})
}

func octoberDates(days ...int) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = time.Date(2025, time.October, d, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestDrag_PaintAcrossDays(t *testing.T) {
	rec := &recorder{}
	v := newOctoberView(t, nil, nil, rec)

	drag(v, 8, 12)

	want := octoberDates(8, 9, 10, 11, 12)
	if got := rec.last(); !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("final onSelect: got %v, want %v", got, want)
	}
	// one notification per painted cell, in order
	if len(rec.calls) != 5 {
		t.Errorf("notifications: got %d, want 5", len(rec.calls))
	}
	for i, call := range rec.calls {
		if len(call) != i+1 {
			t.Errorf("notification %d carries %d dates, want %d", i, len(call), i+1)
		}
	}
}

func TestDrag_EraseStartedOnSelectedDay(t *testing.T) {
	rec := &recorder{}
	v := newOctoberView(t, []int{8, 9, 10}, nil, rec)

	drag(v, 9, 11)

	if got, want := v.Selection().Days(), []int{8}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}
	want := octoberDates(8)
	if got := rec.last(); !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("final onSelect: got %v, want %v", got, want)
	}
}

func TestDrag_ModeFixedAtGestureStart(t *testing.T) {
	// A paint gesture crossing already-selected days keeps painting.
	v := newOctoberView(t, []int{10}, nil, &recorder{})
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 9})
	if v.Controller().Mode() != calendar.Paint {
		t.Fatalf("mode: got %v, want paint", v.Controller().Mode())
	}
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 10})
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 11})
	if v.Controller().Mode() != calendar.Paint {
		t.Errorf("mode changed mid-gesture to %v", v.Controller().Mode())
	}
	if got, want := v.Selection().Days(), []int{9, 10, 11}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}

	// An erase gesture crossing unselected days never adds them.
	v2 := newOctoberView(t, []int{3, 5}, nil, &recorder{})
	v2.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 3})
	for _, d := range []int{4, 5, 6, 7} {
		v2.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: d})
	}
	if got := v2.Selection().Days(); len(got) != 0 {
		t.Errorf("erase gesture left %v selected", got)
	}
}

func TestDrag_SkipsDisabledDay(t *testing.T) {
	rec := &recorder{}
	v := newOctoberView(t, nil, calendar.DisabledDays{10: true}, rec)

	drag(v, 8, 12)

	want := octoberDates(8, 9, 11, 12)
	if got := rec.last(); !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("final onSelect: got %v, want %v", got, want)
	}
}

func TestDrag_DisabledDayNeverSelected(t *testing.T) {
	v := newOctoberView(t, nil, calendar.DisabledDays{15: true}, &recorder{})

	// start on the disabled day, hover it, start elsewhere and sweep over it repeatedly
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 15})
	if v.Controller().Dragging() {
		t.Fatal("pointer-down on a disabled day must not start a gesture")
	}
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 15})
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 14})
	for i := 0; i < 5; i++ {
		v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 15})
		v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 16})
		v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 14})
	}
	v.Dispatch(calendar.Event{Type: calendar.EventUp})

	if v.Selection().Has(15) {
		t.Error("disabled day 15 was selected")
	}
	if got, want := v.Selection().Days(), []int{14, 16}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}
}

func TestDrag_PaddingIgnored(t *testing.T) {
	rec := &recorder{}
	v := newOctoberView(t, nil, nil, rec)
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 0})
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 32})
	if v.Controller().Dragging() {
		t.Error("padding cell started a gesture")
	}
	if len(rec.calls) != 0 {
		t.Errorf("expected no notifications, got %d", len(rec.calls))
	}
}

func TestDrag_EnterWithoutPointerDown(t *testing.T) {
	rec := &recorder{}
	v := newOctoberView(t, nil, nil, rec)
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 5})
	if v.Selection().Len() != 0 || len(rec.calls) != 0 {
		t.Error("hover without a held pointer changed the selection")
	}
}

func TestDrag_PaintUnionsWithOldSelection(t *testing.T) {
	v := newOctoberView(t, []int{1, 2, 20}, calendar.DisabledDays{6: true}, &recorder{})
	drag(v, 4, 8)
	if got, want := v.Selection().Days(), []int{1, 2, 4, 5, 7, 8, 20}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}
}

func TestDrag_TouchMoveHitTesting(t *testing.T) {
	rec := &recorder{}
	v, err := calendar.NewView(calendar.Options{
		Year:     2025,
		Month:    time.October,
		OnSelect: rec.onSelect,
		Layout:   calendar.Layout{CellWidth: 10, CellHeight: 10, Gap: 2},
	})
	if err != nil {
		t.Fatalf("NewView failed: %v", err)
	}

	// day 8 is row 1, col 2; day 9 is col 3; the gap between them is x in [34,36)
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 8})
	v.Dispatch(calendar.Event{Type: calendar.EventTouchMove, X: 35, Y: 15})
	v.Dispatch(calendar.Event{Type: calendar.EventTouchMove, X: 40, Y: 15})
	v.Dispatch(calendar.Event{Type: calendar.EventTouchMove, X: 500, Y: 500})
	v.Dispatch(calendar.Event{Type: calendar.EventTouchEnd})

	if got, want := v.Selection().Days(), []int{8, 9}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}
	if v.Controller().Dragging() {
		t.Error("touchend should end the gesture")
	}
}

func TestDrag_LeaveGridEndsGesture(t *testing.T) {
	v := newOctoberView(t, nil, nil, &recorder{})
	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 3})
	v.Dispatch(calendar.Event{Type: calendar.EventLeave})
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 4})
	if got, want := v.Selection().Days(), []int{3}; !slices.Equal(got, want) {
		t.Errorf("selection: got %v, want %v", got, want)
	}
	if v.Controller().Mode() != calendar.Idle {
		t.Errorf("mode: got %v, want idle", v.Controller().Mode())
	}
}

func TestDrag_WindowReleaseEndsGesture(t *testing.T) {
	w := calendar.NewWindow()
	v := newOctoberView(t, nil, nil, &recorder{})
	v.Mount(w)
	defer v.Unmount()

	v.Dispatch(calendar.Event{Type: calendar.EventDown, Day: 3})
	// pointer released somewhere else on the page
	w.Release()
	if v.Controller().Dragging() {
		t.Fatal("window release did not end the gesture")
	}

	// an unrelated later hover is not a continuation
	v.Dispatch(calendar.Event{Type: calendar.EventEnter, Day: 4})
	if v.Selection().Has(4) {
		t.Error("stale drag state leaked into a later hover")
	}
}
