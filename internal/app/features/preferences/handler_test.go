package preferences_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/features/preferences"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/gmgapp/gmg/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fixture struct {
	db      *mongo.Database
	router  chi.Router
	meeting models.Meeting
	me      models.Participant
	cookies []*http.Cookie
}

func setup(t *testing.T) fixture {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupIndexedDB(t)
	sm := testutil.NewSessionManager(t)
	sm.SetParticipantFetcher(participantstore.New(db))
	h := preferences.NewHandler(db, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/meetings/{id}/preferences", preferences.Routes(h, sm))

	m := testutil.CreateMeeting(t, db, "Dinner", "2099-10-01", "2099-10-31")
	me := testutil.CreateParticipant(t, db, m.ID, "Mina", "1234", true)
	return fixture{db: db, router: r, meeting: m, me: me, cookies: testutil.SessionCookies(t, sm, nil, m.ID, me.ID)}
}

func (f fixture) post(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/meetings/"+f.meeting.ID.Hex()+"/preferences/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	testutil.WithCookies(req, f.cookies)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f fixture) stored(t *testing.T) models.Participant {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p, err := participantstore.New(f.db).GetByID(ctx, f.me.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	return p
}

func TestServePreferences(t *testing.T) {
	f := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	err := participantstore.New(f.db).UpdatePreferences(ctx, f.me.ID, participantstore.Preferences{
		Departure:  models.Location{Label: "Office", Lat: 37.5, Lng: 127.25},
		Transport:  models.TransportWalk,
		Categories: []string{"cafe"},
	})
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}

	req := testutil.WithCookies(httptest.NewRequest("GET", "/meetings/"+f.meeting.ID.Hex()+"/preferences/", nil), f.cookies)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`value="Office"`,
		`value="37.5"`,
		`value="127.25"`,
		`value="walk" checked`,
		`value="cafe" checked`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestServePreferences_RequiresParticipant(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest("GET", "/meetings/"+f.meeting.ID.Hex()+"/preferences/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want 303", rec.Code)
	}
}

func TestHandlePreferences_Saves(t *testing.T) {
	f := setup(t)
	rec := f.post(url.Values{
		"departure": {"  <b>Gangnam</b>   station "},
		"lat":       {"37.4979"},
		"lng":       {"127.0276"},
		"transport": {"Transit"},
		"category":  {"cafe", "CAFE", "park", ""},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/meetings/"+f.meeting.ID.Hex() {
		t.Errorf("Location = %q", loc)
	}

	p := f.stored(t)
	if p.Departure.Label != "Gangnam station" {
		t.Errorf("label = %q", p.Departure.Label)
	}
	if p.Departure.Lat != 37.4979 || p.Departure.Lng != 127.0276 {
		t.Errorf("coords = %v,%v", p.Departure.Lat, p.Departure.Lng)
	}
	if p.Transport != models.TransportTransit {
		t.Errorf("transport = %q", p.Transport)
	}
	if !slices.Equal(p.Categories, []string{"cafe", "park"}) {
		t.Errorf("categories = %v", p.Categories)
	}
	if !p.HasPreferences() {
		t.Error("HasPreferences = false after save")
	}
}

func TestHandlePreferences_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{"missing departure", url.Values{"transport": {"car"}}, "Departure is required."},
		{"unknown transport", url.Values{"departure": {"Home"}, "transport": {"rocket"}}, "Transport must be one of"},
		{"too many categories", url.Values{"departure": {"Home"}, "transport": {"car"}, "category": {"cafe", "bar", "park", "culture"}}, "Choose at most 3"},
		{"unknown category", url.Values{"departure": {"Home"}, "transport": {"car"}, "category": {"casino"}}, "unknown category"},
		{"bad latitude", url.Values{"departure": {"Home"}, "transport": {"car"}, "lat": {"123"}, "lng": {"10"}}, "Latitude"},
		{"half a coordinate", url.Values{"departure": {"Home"}, "transport": {"car"}, "lat": {"37.5"}}, "both latitude and longitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			rec := f.post(tt.form)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 re-render", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("body missing %q", tt.wantMsg)
			}
			if f.stored(t).Transport != "" {
				t.Error("preferences saved despite invalid input")
			}
		})
	}
}
