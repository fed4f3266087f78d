package calendar

// DragController is the pointer/touch state machine of the calendar.
//
// The paint/erase decision is made once, from the first cell of the gesture,
// and holds until the pointer is released: a paint drag that crosses selected
// days keeps painting and an erase drag never adds days.
type DragController struct {
	grid        Grid
	layout      Layout
	sel         *Selection
	mode        Mode
	pointerDown bool
}

// NewDragController wires a controller to grid and sel.
func NewDragController(grid Grid, layout Layout, sel *Selection) *DragController {
	return &DragController{grid: grid, layout: layout, sel: sel}
}

// Mode returns the effect of the current gesture (Idle between gestures).
func (d *DragController) Mode() Mode { return d.mode }

// Dragging reports whether a pointer is engaged.
func (d *DragController) Dragging() bool { return d.pointerDown }

// SetGrid swaps the grid, e.g. after the owner navigates to another month.
func (d *DragController) SetGrid(g Grid) { d.grid = g }

// PointerDown starts a gesture on day. Padding and disabled cells are ignored.
func (d *DragController) PointerDown(day int) {
	if !d.selectable(day) {
		return
	}
	d.pointerDown = true
	if d.sel.Has(day) {
		d.mode = Erase
	} else {
		d.mode = Paint
	}
	d.sel.Apply([]int{day}, d.mode)
}

// PointerEnter extends the gesture onto day while the pointer is held.
func (d *DragController) PointerEnter(day int) {
	if !d.pointerDown || !d.selectable(day) {
		return
	}
	d.sel.Apply([]int{day}, d.mode)
}

// TouchMove resolves the cell under the touch point and treats it as an enter.
// Points over gaps or outside the grid do nothing.
func (d *DragController) TouchMove(x, y float64) {
	if !d.pointerDown {
		return
	}
	day, ok := d.layout.DayAt(d.grid, x, y)
	if !ok {
		return
	}
	d.PointerEnter(day)
}

// PointerUp ends the gesture.
func (d *DragController) PointerUp() { d.end() }

// TouchEnd ends the gesture.
func (d *DragController) TouchEnd() { d.end() }

// LeaveGrid ends the gesture when the pointer leaves the grid.
func (d *DragController) LeaveGrid() { d.end() }

func (d *DragController) end() {
	d.pointerDown = false
	d.mode = Idle
}

func (d *DragController) selectable(day int) bool {
	c, ok := d.grid.Lookup(day)
	return ok && c.Selectable()
}
