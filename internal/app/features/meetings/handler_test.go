package meetings_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/app/features/meetings"
	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/gmgapp/gmg/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (*meetings.Handler, chi.Router) {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupIndexedDB(t)
	sm := testutil.NewSessionManager(t)
	sm.SetParticipantFetcher(participantstore.New(db))
	h := meetings.NewHandler(db, sm, "https://gmg.example", time.UTC, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/meetings", meetings.Routes(h, sm))
	return h, r
}

func dayFromToday(n int) string {
	return models.FormatDateKey(time.Now().UTC().AddDate(0, 0, n))
}

func postForm(r http.Handler, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	testutil.WithCookies(req, cookies)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := testutil.WithCookies(httptest.NewRequest("GET", path, nil), cookies)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":         {"  Friday   dinner "},
		"host_name":    {"Mina"},
		"passcode":     {"s3cret"},
		"window_start": {dayFromToday(10)},
		"window_end":   {dayFromToday(20)},
		"blocked":      {dayFromToday(12)},
		"description":  {"<p>Bring <b>snacks</b></p><script>alert(1)</script>"},
	}
}

func TestServeNew(t *testing.T) {
	_, r := newTestRouter(t)
	rec := get(r, "/meetings/new", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/meetings"`) {
		t.Error("form action missing")
	}
}

func TestHandleCreate(t *testing.T) {
	h, r := newTestRouter(t)

	rec := postForm(r, "/meetings/", validForm(), nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(loc, "/meetings/"))
	if err != nil {
		t.Fatalf("Location %q does not name a meeting", loc)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	m, err := meetingstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		t.Fatalf("meeting not stored: %v", err)
	}
	if m.Name != "Friday dinner" || m.HostName != "Mina" || m.InviteCode == "" {
		t.Errorf("meeting = %+v", m)
	}
	if strings.Contains(m.Description, "script") || !strings.Contains(m.Description, "<b>snacks</b>") {
		t.Errorf("description not sanitized: %q", m.Description)
	}
	if len(m.BlockedDates) != 1 || m.BlockedDates[0] != dayFromToday(12) {
		t.Errorf("BlockedDates = %v", m.BlockedDates)
	}

	host, err := participantstore.New(h.DB).GetByName(ctx, id, "mina")
	if err != nil {
		t.Fatalf("host participant missing: %v", err)
	}
	if !host.IsHost || bcrypt.CompareHashAndPassword(host.PasscodeHash, []byte("s3cret")) != nil {
		t.Errorf("host = %+v", host)
	}

	// the creating browser is now the host of the meeting
	req := testutil.WithCookies(httptest.NewRequest("GET", "/", nil), rec.Result().Cookies())
	if pid, ok := h.SM.ParticipantFor(req, id); !ok || pid != host.ID {
		t.Errorf("ParticipantFor = %v, %v; want %v", pid, ok, host.ID)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	h, r := newTestRouter(t)

	tests := []struct {
		name  string
		edit  func(url.Values)
		error string
	}{
		{"blank name", func(f url.Values) { f.Set("name", "   ") }, "Meetup name is required."},
		{"short passcode", func(f url.Values) { f.Set("passcode", "12") }, "Passcode must be at least 4 characters."},
		{"bad date", func(f url.Values) { f.Set("window_end", "soon") }, "Last date must be a date"},
		{"end before start", func(f url.Values) { f.Set("window_end", dayFromToday(5)) }, "must not be before the first date"},
		{"start in past", func(f url.Values) {
			f.Set("window_start", dayFromToday(-3))
			f.Set("blocked", "")
		}, "must not be in the past"},
		{"window too long", func(f url.Values) { f.Set("window_end", dayFromToday(200)) }, "at most 92 days"},
		{"blocked outside window", func(f url.Values) { f.Set("blocked", dayFromToday(40)) }, "outside the window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(form)
			rec := postForm(r, "/meetings/", form, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (form re-rendered)", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.error) {
				t.Errorf("body does not contain %q", tt.error)
			}
		})
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := h.DB.Collection("meetings").CountDocuments(ctx, bson.M{})
	if err != nil || n != 0 {
		t.Errorf("meetings stored after invalid input: %d, %v", n, err)
	}
}

// seed creates a meeting with a host and a guest and returns cookies for
// each.
func seed(t *testing.T, h *meetings.Handler) (models.Meeting, []*http.Cookie, []*http.Cookie) {
	t.Helper()
	m := testutil.CreateMeeting(t, h.DB, "Picnic", dayFromToday(10), dayFromToday(20))
	host := testutil.CreateParticipant(t, h.DB, m.ID, "Mina", "1234", true)
	guest := testutil.CreateParticipant(t, h.DB, m.ID, "Joon", "5678", false)
	testutil.SetAvailability(t, h.DB, guest.ID, dayFromToday(11)[:7], 1, 2)
	return m, testutil.SessionCookies(t, h.SM, nil, m.ID, host.ID), testutil.SessionCookies(t, h.SM, nil, m.ID, guest.ID)
}

func TestServeOverview(t *testing.T) {
	h, r := newTestRouter(t)
	m, hostCookies, _ := seed(t, h)
	path := "/meetings/" + m.ID.Hex() + "/"

	t.Run("participant", func(t *testing.T) {
		rec := get(r, path, hostCookies)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"Joon", "Mina (host)", "1 of 2 painted", "https://gmg.example/join/" + m.InviteCode, "blocked-form"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})

	t.Run("stranger", func(t *testing.T) {
		rec := get(r, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		body := rec.Body.String()
		if strings.Contains(body, "Joon") {
			t.Error("roster leaked to a visitor who has not joined")
		}
		if !strings.Contains(body, "/join/"+m.InviteCode) {
			t.Error("join button missing")
		}
	})

	t.Run("unknown meeting", func(t *testing.T) {
		if rec := get(r, "/meetings/"+primitive.NewObjectID().Hex()+"/", nil); rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		if rec := get(r, "/meetings/nope/", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestHandleBlocked(t *testing.T) {
	h, r := newTestRouter(t)
	m, hostCookies, guestCookies := seed(t, h)
	path := "/meetings/" + m.ID.Hex() + "/blocked"

	if rec := postForm(r, path, url.Values{"blocked": {dayFromToday(15)}}, guestCookies); rec.Code != http.StatusForbidden {
		t.Errorf("guest: status %d, want 403", rec.Code)
	}
	if rec := postForm(r, path, url.Values{"blocked": {dayFromToday(90)}}, hostCookies); rec.Code != http.StatusBadRequest {
		t.Errorf("out of window: status %d, want 400", rec.Code)
	}

	rec := postForm(r, path, url.Values{"blocked": {dayFromToday(15) + " " + dayFromToday(14)}}, hostCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("host: status %d, want 303", rec.Code)
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := meetingstore.New(h.DB).GetByID(ctx, m.ID)
	if len(got.BlockedDates) != 2 || got.BlockedDates[0] != dayFromToday(14) {
		t.Errorf("BlockedDates = %v", got.BlockedDates)
	}
}

func TestHandleLeave(t *testing.T) {
	h, r := newTestRouter(t)
	m, _, guestCookies := seed(t, h)

	rec := postForm(r, "/meetings/"+m.ID.Hex()+"/leave", url.Values{}, guestCookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}
	req := testutil.WithCookies(httptest.NewRequest("GET", "/", nil), rec.Result().Cookies())
	if _, ok := h.SM.ParticipantFor(req, m.ID); ok {
		t.Error("meeting still remembered after leaving")
	}

	// without a session the request is sent back to the overview
	rec = postForm(r, "/meetings/"+m.ID.Hex()+"/leave", url.Values{}, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/meetings/"+m.ID.Hex() {
		t.Errorf("anonymous leave: status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}
}
