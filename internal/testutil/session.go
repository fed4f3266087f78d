package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gmgapp/gmg/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NewSessionManager returns a session manager with a fixed test key.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// SessionCookies returns the cookies of a browser that joined meetingID as
// participantID, on top of the meetings already in prior.
func SessionCookies(t *testing.T, sm *auth.SessionManager, prior []*http.Cookie, meetingID, participantID primitive.ObjectID) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := WithCookies(httptest.NewRequest("GET", "/", nil), prior)
	if err := sm.Remember(rec, req, meetingID, participantID); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	return rec.Result().Cookies()
}

// WithCookies adds cookies to r and returns it.
func WithCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}
