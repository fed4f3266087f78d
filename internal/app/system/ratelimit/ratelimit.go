// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows.
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	cleanup  time.Duration // how often to clean old entries
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a new rate limiter.
// limit: maximum requests allowed per duration
// duration: the time window for counting requests
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow checks if a request from the given key should be allowed.
// Returns true if allowed, false if rate limited.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	// If no window exists or window expired, create new one
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true
	}

	// Window still active - check limit
	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Reset clears the rate limit for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Close stops the cleanup goroutine. The limiter keeps working afterwards
// but no longer drops expired entries.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// cleanupLoop periodically removes expired entries.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request. X-Forwarded-For and
// X-Real-IP are only read when trustProxy is set, since any client can send
// them; otherwise RemoteAddr is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// comma-separated list, first is client
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	// Fall back to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// JoinLimiter guards the join form, where a passcode is checked. It limits
// attempts per client IP and per participant name within a meeting, so
// neither one IP nor many IPs can guess a passcode quickly.
type JoinLimiter struct {
	ipLimiter   *Limiter
	nameLimiter *Limiter
	trustProxy  bool
}

// NewJoinLimiter allows perIP attempts per minute per IP and half as many
// (at least 3) per meeting+name every 5 minutes. trustProxy makes the IP
// come from proxy headers; set it only behind a reverse proxy that
// overwrites them.
func NewJoinLimiter(perIP int, trustProxy bool) *JoinLimiter {
	if perIP <= 0 {
		perIP = 10
	}
	return &JoinLimiter{
		ipLimiter:   New(perIP, time.Minute),
		nameLimiter: New(max(3, perIP/2), 5*time.Minute),
		trustProxy:  trustProxy,
	}
}

// Check reports whether a join attempt should be allowed, with a message for
// the user when it is not.
func (jl *JoinLimiter) Check(r *http.Request, meetingCode, name string) (bool, string) {
	if !jl.ipLimiter.Allow(ClientIP(r, jl.trustProxy)) {
		return false, "Too many attempts. Please wait a minute before trying again."
	}
	if name != "" && !jl.nameLimiter.Allow(nameKey(meetingCode, name)) {
		return false, "Too many attempts for this name. Please wait a few minutes."
	}
	return true, ""
}

// ResetName clears the per-name window after a successful join.
func (jl *JoinLimiter) ResetName(meetingCode, name string) {
	jl.nameLimiter.Reset(nameKey(meetingCode, name))
}

// Close stops both cleanup loops.
func (jl *JoinLimiter) Close() {
	jl.ipLimiter.Close()
	jl.nameLimiter.Close()
}

func nameKey(meetingCode, name string) string {
	return strings.ToUpper(meetingCode) + "|" + strings.ToLower(strings.TrimSpace(name))
}
