package calendar

import (
	"errors"
	"fmt"
)

// EventType names a pointer event recorded by the browser.
type EventType string

const (
	EventDown      EventType = "down"
	EventEnter     EventType = "enter"
	EventTouchMove EventType = "touchmove"
	EventUp        EventType = "up"
	EventTouchEnd  EventType = "touchend"
	EventLeave     EventType = "leave"
	// EventRelease is a mouseup/touchend caught at the page level, outside the grid.
	EventRelease EventType = "release"
)

// MaxGestureEvents bounds a single recorded gesture.
const MaxGestureEvents = 2000

var (
	ErrUnknownEvent    = errors.New("calendar: unknown event type")
	ErrGestureTooLarge = errors.New("calendar: gesture has too many events")
)

// Event is one recorded pointer event. Day is set for cell events; X and Y
// carry client coordinates for touchmove.
type Event struct {
	Type EventType `json:"type"`
	Day  int       `json:"day,omitempty"`
	X    float64   `json:"x,omitempty"`
	Y    float64   `json:"y,omitempty"`
}

// ValidateEvents checks a recorded gesture before it is replayed.
func ValidateEvents(events []Event) error {
	if len(events) > MaxGestureEvents {
		return ErrGestureTooLarge
	}
	for i, ev := range events {
		switch ev.Type {
		case EventDown, EventEnter, EventTouchMove, EventUp, EventTouchEnd, EventLeave, EventRelease:
		default:
			return fmt.Errorf("event %d (%q): %w", i, ev.Type, ErrUnknownEvent)
		}
	}
	return nil
}
