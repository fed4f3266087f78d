package calendar

import "math"

// Layout describes where the grid cells sit on screen so a touch point can be
// mapped back to a day without asking the browser which element is under it.
// Coordinates are client pixels; Gap separates neighbouring cells.
type Layout struct {
	X, Y       float64
	CellWidth  float64
	CellHeight float64
	Gap        float64
}

// DefaultLayout matches the stylesheet shipped with the app (48px cells, 4px gaps)
// with the grid origin at 0,0.
var DefaultLayout = Layout{CellWidth: 48, CellHeight: 48, Gap: 4}

// Valid reports whether the layout can resolve points.
func (l Layout) Valid() bool {
	return l.CellWidth > 0 && l.CellHeight > 0 && l.Gap >= 0
}

// Cell returns the row and column under x, y. Points over gaps or outside the
// grid report ok=false.
func (l Layout) Cell(x, y float64) (row, col int, ok bool) {
	if !l.Valid() {
		return 0, 0, false
	}
	col, ok = axis(x-l.X, l.CellWidth, l.Gap, Cols)
	if !ok {
		return 0, 0, false
	}
	row, ok = axis(y-l.Y, l.CellHeight, l.Gap, Rows)
	if !ok {
		return 0, 0, false
	}
	return row, col, true
}

// DayAt resolves the day under x, y in g. Padding cells report ok=false.
func (l Layout) DayAt(g Grid, x, y float64) (int, bool) {
	row, col, ok := l.Cell(x, y)
	if !ok {
		return 0, false
	}
	c := g.At(row, col)
	if c.IsPadding() {
		return 0, false
	}
	return c.Day, true
}

func axis(offset, size, gap float64, n int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	pitch := size + gap
	idx := int(math.Floor(offset / pitch))
	if idx >= n {
		return 0, false
	}
	if offset-float64(idx)*pitch >= size {
		return 0, false
	}
	return idx, true
}
