package calendar

import "sync"

// Window is the process-wide release hub: the equivalent of listening for
// mouseup/touchend on the whole page. A drag that ends outside the grid still
// reaches Idle through it. Views register on Mount and release on Unmount.
type Window struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func()
}

// NewWindow returns an empty hub.
func NewWindow() *Window {
	return &Window{listeners: make(map[int]func())}
}

// OnRelease registers fn and returns the function that removes it.
// The returned function may be called more than once.
func (w *Window) OnRelease(fn func()) (release func()) {
	w.mu.Lock()
	id := w.next
	w.next++
	w.listeners[id] = fn
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.listeners, id)
			w.mu.Unlock()
		})
	}
}

// Release notifies every registered listener that the pointer was released.
func (w *Window) Release() {
	w.mu.Lock()
	fns := make([]func(), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listeners returns how many listeners are registered.
func (w *Window) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}
