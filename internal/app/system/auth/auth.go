// Package auth keeps track of which participant a browser is for each meeting
// it joined. There are no user accounts: a signed cookie maps meeting IDs to
// participant IDs.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "gmg-session"

	// session keys are "m:<meeting hex>" with the participant hex as value
	meetingKeyPrefix = "m:"

	// MaxJoined bounds how many meetings one browser remembers.
	MaxJoined = 50
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-participant helper                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionParticipant is what LoadParticipant injects into r.Context().
type SessionParticipant struct {
	ID        primitive.ObjectID
	MeetingID primitive.ObjectID
	Name      string
	IsHost    bool
}

type ctxKey string

const currentParticipantKey ctxKey = "currentParticipant"

// CurrentParticipant returns the participant & "found?" flag.
func CurrentParticipant(r *http.Request) (*SessionParticipant, bool) {
	p, ok := r.Context().Value(currentParticipantKey).(*SessionParticipant)
	return p, ok
}

// WithParticipant returns r carrying p, as LoadParticipant would.
func WithParticipant(r *http.Request, p *SessionParticipant) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentParticipantKey, p))
}

// ParticipantFetcher loads a participant by ID. The participants store
// satisfies it.
type ParticipantFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Participant, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the participant lookup.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher ParticipantFetcher
	log     *zap.Logger
}

// NewSessionManager builds the cookie store.
//
// In production (secure=true) cookies are Secure + SameSite=None; in local
// dev over http://localhost use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetParticipantFetcher makes LoadParticipant verify the cookie against the
// database on each request, so a removed participant loses access at once.
func (sm *SessionManager) SetParticipantFetcher(f ParticipantFetcher) {
	sm.fetcher = f
}

func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	// Get returns a fresh session alongside a decode error for a tampered
	// or stale cookie; the fresh one is what we want then.
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Debug("session decode failed; starting fresh", zap.Error(err))
		} else {
			sm.log.Warn("session load failed", zap.Error(err))
		}
	}
	return sess
}

// ParticipantFor returns the participant this browser is for in meetingID.
func (sm *SessionManager) ParticipantFor(r *http.Request, meetingID primitive.ObjectID) (primitive.ObjectID, bool) {
	sess := sm.session(r)
	hex, _ := sess.Values[meetingKeyPrefix+meetingID.Hex()].(string)
	if hex == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// Remember records that this browser is participantID in meetingID.
func (sm *SessionManager) Remember(w http.ResponseWriter, r *http.Request, meetingID, participantID primitive.ObjectID) error {
	sess := sm.session(r)
	key := meetingKeyPrefix + meetingID.Hex()
	if _, ok := sess.Values[key]; !ok && len(joinedKeys(sess)) >= MaxJoined {
		return fmt.Errorf("cannot remember more than %d meetings", MaxJoined)
	}
	sess.Values[key] = participantID.Hex()
	return sess.Save(r, w)
}

// Forget drops the meeting from this browser's session.
func (sm *SessionManager) Forget(w http.ResponseWriter, r *http.Request, meetingID primitive.ObjectID) error {
	sess := sm.session(r)
	delete(sess.Values, meetingKeyPrefix+meetingID.Hex())
	return sess.Save(r, w)
}

// JoinedMeetings lists every meeting this browser has joined.
func (sm *SessionManager) JoinedMeetings(r *http.Request) []primitive.ObjectID {
	sess := sm.session(r)
	var out []primitive.ObjectID
	for _, key := range joinedKeys(sess) {
		id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(key, meetingKeyPrefix))
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func joinedKeys(sess *sessions.Session) []string {
	var keys []string
	for k := range sess.Values {
		if s, ok := k.(string); ok && strings.HasPrefix(s, meetingKeyPrefix) {
			keys = append(keys, s)
		}
	}
	return keys
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadParticipant injects the participant for the {id} meeting in the route,
// if this browser joined it. Requests without a meeting in the path pass
// through untouched.
func (sm *SessionManager) LoadParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meetingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		pid, ok := sm.ParticipantFor(r, meetingID)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		sp := &SessionParticipant{ID: pid, MeetingID: meetingID}
		if sm.fetcher != nil {
			p, err := sm.fetcher.GetByID(r.Context(), pid)
			if err != nil || p.MeetingID != meetingID {
				sm.log.Info("stale participant session",
					zap.String("meeting_id", meetingID.Hex()),
					zap.String("participant_id", pid.Hex()),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			sp.Name = p.Name
			sp.IsHost = p.IsHost
		}
		next.ServeHTTP(w, WithParticipant(r, sp))
	})
}

// RequireParticipant ensures the request carries a participant of the meeting.
// If not:
//   - HTMX: sends HX-Redirect to the meeting overview
//   - HTML: 303 redirect to the meeting overview
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentParticipant(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		dest := "/"
		if id := chi.URLParam(r, "id"); id != "" {
			dest = "/meetings/" + id
		}

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func wantsHTML(r *http.Request) bool {
	// treat it as HTML if it's HTMX or Accepts text/html
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
