// Package calendar implements the drag-select month calendar used by the
// availability and results pages.
//
// The package is split the same way the page uses it:
//   - Build lays a month out on a fixed 5×7 Monday-first grid.
//   - Selection holds the selected days of the displayed month and notifies
//     the owner after every change.
//   - DragController turns pointer and touch input into paint or erase
//     operations on the Selection.
//   - View ties the three together, owns the window-level release listener
//     and renders the grid as HTML.
package calendar

import (
	"errors"
	"time"

	"cloudeng.io/datetime"
)

// Grid dimensions. The grid never grows or shrinks with the month.
const (
	Rows      = 5
	Cols      = 7
	CellCount = Rows * Cols
)

// ErrInvalidMonth is returned when a month outside January..December is requested.
var ErrInvalidMonth = errors.New("calendar: month out of range")

// Cell is one slot of the grid. Day is 0 for padding cells.
type Cell struct {
	Day      int
	Disabled bool
}

// IsPadding reports whether the cell has no calendar day.
func (c Cell) IsPadding() bool { return c.Day == 0 }

// Selectable reports whether the cell can ever join a selection.
func (c Cell) Selectable() bool { return c.Day != 0 && !c.Disabled }

// DisabledDays is the sparse per-day disabled lookup. Missing days are enabled.
type DisabledDays map[int]bool

// Grid is a month laid out Monday-first on 5 rows of 7 cells.
type Grid [Rows][Cols]Cell

// MondayOffset converts a time.Weekday (Sunday=0) into the number of padding
// cells that precede day 1 in a Monday-first layout.
func MondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// MonthFromIndex converts a zero-based month index (0=January) into a
// time.Month, rejecting anything outside 0..11.
func MonthFromIndex(idx int) (time.Month, error) {
	if idx < 0 || idx > 11 {
		return 0, ErrInvalidMonth
	}
	return time.Month(idx + 1), nil
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// Build lays out the month: MondayOffset leading padding cells, then the days
// in order, then trailing padding up to CellCount. Days that would need a
// sixth row are left out of the grid.
func Build(year int, month time.Month, disabled DisabledDays) (Grid, error) {
	var g Grid
	if month < time.January || month > time.December {
		return g, ErrInvalidMonth
	}

	offset := MondayOffset(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	days := DaysIn(year, month)

	var flat [CellCount]Cell
	for day := 1; day <= days && offset+day-1 < CellCount; day++ {
		flat[offset+day-1] = Cell{Day: day, Disabled: disabled[day]}
	}

	for i, c := range flat {
		g[i/Cols][i%Cols] = c
	}
	return g, nil
}

// Cells returns the grid flattened row by row.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, CellCount)
	for _, row := range g {
		out = append(out, row[:]...)
	}
	return out
}

// Position returns the row and column holding day.
func (g Grid) Position(day int) (row, col int, ok bool) {
	if day <= 0 {
		return 0, 0, false
	}
	for r := range g {
		for c := range g[r] {
			if g[r][c].Day == day {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Lookup returns the cell holding day.
func (g Grid) Lookup(day int) (Cell, bool) {
	r, c, ok := g.Position(day)
	if !ok {
		return Cell{}, false
	}
	return g[r][c], true
}

// At returns the cell at row, col. Out-of-range coordinates yield a padding cell.
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return Cell{}
	}
	return g[row][col]
}
