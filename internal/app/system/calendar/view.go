package calendar

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var gridTmpl = template.Must(template.ParseFS(templateFS, "templates/*.gohtml"))

// HeatLevels is the number of non-empty intensity classes in read-only mode.
const HeatLevels = 5

// Weekdays is the Monday-first header.
var Weekdays = [Cols]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Options configures a View. The zero value of ReadOnly is an interactive view.
type Options struct {
	Year            int
	Month           time.Month
	InitialSelected []int
	Disabled        DisabledDays
	OnSelect        SelectFunc
	Location        *time.Location

	// Layout is used to resolve touch points. Zero means DefaultLayout.
	Layout Layout

	// ReadOnly renders availability intensity instead of a selection and
	// ignores all input.
	ReadOnly        bool
	Availability    map[int]int
	MaxAvailability int
}

// View is one mounted calendar: grid, selection and drag controller.
type View struct {
	opts    Options
	grid    Grid
	sel     *Selection
	drag    *DragController
	win     *Window
	release func()
}

// NewView builds the grid for opts.Year/opts.Month and seeds the selection.
func NewView(opts Options) (*View, error) {
	g, err := Build(opts.Year, opts.Month, opts.Disabled)
	if err != nil {
		return nil, err
	}
	if !opts.Layout.Valid() {
		opts.Layout = DefaultLayout
	}
	v := &View{opts: opts, grid: g}
	v.sel = NewSelection(opts.Year, opts.Month, opts.InitialSelected, opts.Location, opts.OnSelect)
	v.drag = NewDragController(g, opts.Layout, v.sel)
	return v, nil
}

func (v *View) Grid() Grid { return v.grid }
func (v *View) Selection() *Selection { return v.sel }
func (v *View) Controller() *DragController { return v.drag }
func (v *View) Interactive() bool { return !v.opts.ReadOnly }
func (v *View) Mounted() bool { return v.release != nil }

// Mount registers the view's release listener on w. Read-only views and
// already mounted views do nothing.
func (v *View) Mount(w *Window) {
	if v.opts.ReadOnly || v.release != nil || w == nil {
		return
	}
	v.win = w
	v.release = w.OnRelease(v.drag.PointerUp)
}

// Unmount removes the release listener. A gesture in progress is abandoned
// as is: whatever it already applied stays applied.
func (v *View) Unmount() {
	if v.release != nil {
		v.release()
	}
	v.release = nil
	v.win = nil
	v.drag.end()
}

// Update moves the view to another month or new inputs. The selection is
// re-seeded only when year, month or initial changed.
func (v *View) Update(year int, month time.Month, initial []int, disabled DisabledDays) error {
	g, err := Build(year, month, disabled)
	if err != nil {
		return err
	}
	v.opts.Year, v.opts.Month = year, month
	v.opts.InitialSelected, v.opts.Disabled = initial, disabled
	v.grid = g
	v.drag.SetGrid(g)
	v.sel.Sync(year, month, initial)
	return nil
}

// Dispatch routes one pointer event to the controller.
func (v *View) Dispatch(ev Event) {
	if v.opts.ReadOnly {
		return
	}
	switch ev.Type {
	case EventDown:
		v.drag.PointerDown(ev.Day)
	case EventEnter:
		v.drag.PointerEnter(ev.Day)
	case EventTouchMove:
		v.drag.TouchMove(ev.X, ev.Y)
	case EventUp:
		v.drag.PointerUp()
	case EventTouchEnd:
		v.drag.TouchEnd()
	case EventLeave:
		v.drag.LeaveGrid()
	case EventRelease:
		if v.win != nil {
			v.win.Release()
		} else {
			v.drag.PointerUp()
		}
	}
}

// Replay dispatches a recorded gesture in order.
func (v *View) Replay(events []Event) {
	for _, ev := range events {
		v.Dispatch(ev)
	}
}

type cellVM struct {
	Day       int
	Padding   bool
	Selected  bool
	Disabled  bool
	Count     int
	Level     int
	Intensity string
	Label     string
}

type gridVM struct {
	Year        int
	Month       int
	MonthName   string
	Interactive bool
	Weekdays    [Cols]string
	Rows        [Rows][Cols]cellVM
}

// Intensity returns count/max clamped to [0,1]; 0 when max is not positive.
func Intensity(count, maxCount int) float64 {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	if count >= maxCount {
		return 1
	}
	return float64(count) / float64(maxCount)
}

// HeatLevel buckets an intensity into 0..HeatLevels. Any non-zero intensity
// gets at least level 1.
func HeatLevel(intensity float64) int {
	if intensity <= 0 {
		return 0
	}
	return int(math.Ceil(intensity * HeatLevels))
}

func (v *View) model() gridVM {
	vm := gridVM{
		Year:        v.opts.Year,
		Month:       int(v.opts.Month),
		MonthName:   v.opts.Month.String(),
		Interactive: !v.opts.ReadOnly,
		Weekdays:    Weekdays,
	}
	for r := range v.grid {
		for c, cell := range v.grid[r] {
			cv := cellVM{Day: cell.Day, Padding: cell.IsPadding(), Disabled: cell.Disabled}
			if !cv.Padding {
				if v.opts.ReadOnly {
					cv.Count = v.opts.Availability[cell.Day]
					in := Intensity(cv.Count, v.opts.MaxAvailability)
					cv.Level = HeatLevel(in)
					cv.Intensity = fmt.Sprintf("%.2f", in)
					cv.Label = fmt.Sprintf("%d of %d available", cv.Count, v.opts.MaxAvailability)
				} else {
					cv.Selected = v.sel.Has(cell.Day)
				}
			}
			vm.Rows[r][c] = cv
		}
	}
	return vm
}

// Render writes the grid as an HTML table.
func (v *View) Render(w io.Writer) error {
	return gridTmpl.ExecuteTemplate(w, "calendar_grid", v.model())
}

// HTML renders the grid for embedding in a page template.
func (v *View) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
