package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafeBackURL_Meeting(t *testing.T) {
	opts := MeetingBackURL("abc")
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"no return", "/join/CODE", "/meetings/abc"},
		{"inside meeting", "/join/CODE?return=/meetings/abc/availability", "/meetings/abc/availability"},
		{"other meeting", "/join/CODE?return=/meetings/xyz", "/meetings/abc"},
		{"external", "/join/CODE?return=https://evil.example/meetings/abc", "/meetings/abc"},
		{"json endpoint", "/join/CODE?return=/meetings/abc/availability/gesture", "/meetings/abc"},
		{"keeps month", "/join/CODE?month=2025-10", "/meetings/abc?month=2025-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if got := SafeBackURL(req, opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}
