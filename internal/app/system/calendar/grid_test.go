package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gmgapp/gmg/internal/app/system/calendar"
)

func TestBuild_AlwaysThirtyFiveCells(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			g, err := calendar.Build(year, m, nil)
			if err != nil {
				t.Fatalf("Build(%d, %v) failed: %v", year, m, err)
			}
			if got := len(g.Cells()); got != calendar.CellCount {
				t.Errorf("Build(%d, %v): got %d cells, want %d", year, m, got, calendar.CellCount)
			}

			// days run in order from 1 with no repeats
			want := 1
			for _, c := range g.Cells() {
				if c.IsPadding() {
					continue
				}
				if c.Day != want {
					t.Errorf("Build(%d, %v): got day %d, want %d", year, m, c.Day, want)
					break
				}
				want++
			}
			if want-1 > calendar.DaysIn(year, m) {
				t.Errorf("Build(%d, %v): %d days placed, month has %d", year, m, want-1, calendar.DaysIn(year, m))
			}
		}
	}
}

func TestBuild_FirstDayCellAtMondayOffset(t *testing.T) {
	for year := 2023; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			g, err := calendar.Build(year, m, nil)
			if err != nil {
				t.Fatalf("Build(%d, %v) failed: %v", year, m, err)
			}
			want := calendar.MondayOffset(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Weekday())
			first := -1
			for i, c := range g.Cells() {
				if !c.IsPadding() {
					first = i
					break
				}
			}
			if first != want {
				t.Errorf("Build(%d, %v): first day cell at %d, want %d", year, m, first, want)
				continue
			}
			if got := g.Cells()[first].Day; got != 1 {
				t.Errorf("Build(%d, %v): first day cell holds %d, want 1", year, m, got)
			}
		}
	}
}

func TestBuild_DayOneAtMondayOffset(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      time.Month
		wantOffset int
	}{
		{"starts Wednesday", 2025, time.October, 2},
		{"starts Monday", 2021, time.February, 0},
		{"starts Sunday", 2026, time.March, 6},
		{"starts Saturday", 2025, time.November, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := calendar.Build(tt.year, tt.month, nil)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			row, col, ok := g.Position(1)
			if !ok {
				t.Fatal("day 1 not found")
			}
			if got := row*calendar.Cols + col; got != tt.wantOffset {
				t.Errorf("day 1 at index %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestBuild_October2025Layout(t *testing.T) {
	g, err := calendar.Build(2025, time.October, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cells := g.Cells()
	if !cells[0].IsPadding() || !cells[1].IsPadding() {
		t.Errorf("expected two leading padding cells, got %+v %+v", cells[0], cells[1])
	}
	if cells[2].Day != 1 {
		t.Errorf("cell 2: got day %d, want 1", cells[2].Day)
	}
	if cells[32].Day != 31 {
		t.Errorf("cell 32: got day %d, want 31", cells[32].Day)
	}
	for i := 33; i < calendar.CellCount; i++ {
		if !cells[i].IsPadding() {
			t.Errorf("cell %d: expected trailing padding, got day %d", i, cells[i].Day)
		}
	}
}

func TestBuild_SixthRowDaysLeftOut(t *testing.T) {
	// March 2026 starts on a Sunday and has 31 days: 6 + 31 = 37 slots.
	g, err := calendar.Build(2026, time.March, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for col := 0; col < 6; col++ {
		if !g.At(0, col).IsPadding() {
			t.Errorf("cell (0,%d): got day %d, want padding", col, g.At(0, col).Day)
		}
	}
	if got := g.At(0, 6).Day; got != 1 {
		t.Errorf("cell (0,6): got %d, want 1", got)
	}
	if got := g.At(4, 6).Day; got != 29 {
		t.Errorf("cell (4,6): got %d, want 29", got)
	}
	for _, day := range []int{30, 31} {
		if _, ok := g.Lookup(day); ok {
			t.Errorf("day %d should not be on the grid", day)
		}
	}
}

func TestBuild_DisabledFlags(t *testing.T) {
	g, err := calendar.Build(2025, time.October, calendar.DisabledDays{10: true, 11: false})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	c, ok := g.Lookup(10)
	if !ok || !c.Disabled {
		t.Errorf("day 10: got %+v, want disabled", c)
	}
	c, _ = g.Lookup(11)
	if c.Disabled {
		t.Error("day 11 should be enabled")
	}
	c, _ = g.Lookup(12)
	if c.Disabled {
		t.Error("absent day 12 should default to enabled")
	}
}

func TestBuild_RejectsOutOfRangeMonth(t *testing.T) {
	for _, m := range []time.Month{0, 13, -1} {
		if _, err := calendar.Build(2025, m, nil); !errors.Is(err, calendar.ErrInvalidMonth) {
			t.Errorf("Build(2025, %d): got %v, want ErrInvalidMonth", m, err)
		}
	}
}

func TestMonthFromIndex(t *testing.T) {
	if m, err := calendar.MonthFromIndex(0); err != nil || m != time.January {
		t.Errorf("MonthFromIndex(0) = %v, %v", m, err)
	}
	if m, err := calendar.MonthFromIndex(11); err != nil || m != time.December {
		t.Errorf("MonthFromIndex(11) = %v, %v", m, err)
	}
	if _, err := calendar.MonthFromIndex(12); !errors.Is(err, calendar.ErrInvalidMonth) {
		t.Errorf("MonthFromIndex(12): got %v, want ErrInvalidMonth", err)
	}
}

func TestMondayOffset(t *testing.T) {
	if got := calendar.MondayOffset(time.Monday); got != 0 {
		t.Errorf("Monday: got %d, want 0", got)
	}
	if got := calendar.MondayOffset(time.Sunday); got != 6 {
		t.Errorf("Sunday: got %d, want 6", got)
	}
	if got := calendar.MondayOffset(time.Wednesday); got != 2 {
		t.Errorf("Wednesday: got %d, want 2", got)
	}
}

func TestLayout_DayAt(t *testing.T) {
	g, _ := calendar.Build(2025, time.October, nil)
	l := calendar.Layout{X: 10, Y: 20, CellWidth: 40, CellHeight: 30, Gap: 5}

	tests := []struct {
		name    string
		x, y    float64
		wantDay int
		wantOK  bool
	}{
		{"first padding cell", 15, 25, 0, false},
		{"day 1 (row 0, col 2)", 10 + 2*45 + 1, 21, 1, true},
		{"day 8 (row 1, col 2)", 10 + 2*45 + 39, 20 + 35 + 29, 8, true},
		{"horizontal gap", 10 + 40 + 2, 25, 0, false},
		{"vertical gap", 10 + 2*45 + 5, 20 + 31, 0, false},
		{"left of grid", 5, 25, 0, false},
		{"below grid", 100, 20 + 5*35 + 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := l.DayAt(g, tt.x, tt.y)
			if ok != tt.wantOK || day != tt.wantDay {
				t.Errorf("DayAt(%v, %v) = %d, %v; want %d, %v", tt.x, tt.y, day, ok, tt.wantDay, tt.wantOK)
			}
		})
	}
}
