package home_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/features/home"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/gmgapp/gmg/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *home.Handler {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupIndexedDB(t)
	sm := testutil.NewSessionManager(t)
	return home.NewHandler(db, sm, time.UTC, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

func TestServeRoot_Anonymous(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeRoot(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Create a meetup") {
		t.Error("landing call to action missing")
	}
	if strings.Contains(body, "My meetups") {
		t.Error("anonymous visitor should not see a meeting list")
	}
}

func TestServeRoot_ListsJoinedMeetingsByDDay(t *testing.T) {
	h := newTestHandler(t)
	today := models.DateOf(time.Now().UTC())
	key := models.FormatDateKey

	later := testutil.CreateMeeting(t, h.DB, "Later dinner", key(today.AddDate(0, 0, 30)), key(today.AddDate(0, 0, 40)))
	soon := testutil.CreateMeeting(t, h.DB, "Soon picnic", key(today.AddDate(0, 0, 60)), key(today.AddDate(0, 0, 70)))
	past := testutil.CreateMeeting(t, h.DB, "Old reunion", key(today.AddDate(0, 0, -20)), key(today.AddDate(0, 0, -10)))

	// the plan date beats the window start
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := planstore.New(h.DB).Upsert(ctx, models.Plan{MeetingID: soon.ID, CommonDate: key(today.AddDate(0, 0, 3))}); err != nil {
		t.Fatalf("Upsert plan failed: %v", err)
	}

	var cookies []*http.Cookie
	for _, m := range []models.Meeting{later, soon, past} {
		p := testutil.CreateParticipant(t, h.DB, m.ID, "Mina", "", true)
		cookies = testutil.SessionCookies(t, h.SM, cookies, m.ID, p.ID)
	}
	testutil.CreateParticipant(t, h.DB, later.ID, "Joon", "", false)

	rec := httptest.NewRecorder()
	h.ServeRoot(rec, testutil.WithCookies(httptest.NewRequest("GET", "/", nil), cookies))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	iSoon := strings.Index(body, "Soon picnic")
	iLater := strings.Index(body, "Later dinner")
	iPast := strings.Index(body, "Old reunion")
	if iSoon < 0 || iLater < 0 || iPast < 0 {
		t.Fatalf("missing meetings in body")
	}
	if !(iSoon < iLater && iLater < iPast) {
		t.Errorf("order: soon=%d later=%d past=%d, want soon < later < past", iSoon, iLater, iPast)
	}
	for _, want := range []string{"D-3", "D-30", "D+20", "2 joined"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
