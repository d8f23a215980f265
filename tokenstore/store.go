package tokenstore

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xy-planning-network/portal/logger"
)

// expiryLayouts are the date formats an expiry is parsed with, in order.
var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// A Store persists and clears session tokens.
type Store struct {
	l   logger.Logger
	now func() time.Time
}

// An Option configures a *Store.
type Option func(*Store)

// WithClock sets the function a *Store reads the current time from.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a *Store logging failed writes through l.
func New(l logger.Logger, opts ...Option) *Store {
	s := &Store{l: l, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.l == nil {
		s.l = logger.New()
	}

	return s
}

// Persist copies token under every StorageKeys key in t.Storage
// and sets the CookieName cookie in t.Cookies.
// The cookie lives as long as MaxAge computes from expire.
//
// Persist does nothing if t is not Interactive.
func (s *Store) Persist(t Target, token, expire string) {
	if !t.Interactive() {
		return
	}

	for _, key := range StorageKeys {
		s.attempt("persist", key, t.Storage.SetItem(key, token))
	}

	c := newCookie(token, MaxAge(expire, s.now()))
	s.attempt("persist", "cookie:"+CookieName, t.Cookies.SetCookie(c))
}

// Clear removes every StorageKeys key from t.Storage
// and expires the CookieName cookie in t.Cookies.
//
// Clear does nothing if t is not Interactive.
func (s *Store) Clear(t Target) {
	if !t.Interactive() {
		return
	}

	for _, key := range StorageKeys {
		s.attempt("clear", key, t.Storage.RemoveItem(key))
	}

	// NOTE: http.Cookie encodes a negative MaxAge as "Max-Age=0".
	c := newCookie("", -1)
	s.attempt("clear", "cookie:"+CookieName, t.Cookies.SetCookie(c))
}

// attempt logs err, if any, and discards it.
func (s *Store) attempt(op, location string, err error) {
	if err == nil {
		return
	}

	s.l.Warn(fmt.Sprintf("could not %s token", op), &logger.LogContext{
		Caller: logger.CurrentCaller(),
		Data:   map[string]any{"location": location},
		Error:  err,
	})
}

// MaxAge computes the number of seconds from now until expire, rounded to the nearest second.
// If expire is blank, cannot be parsed, or is not after now, DefaultMaxAge returns.
func MaxAge(expire string, now time.Time) int {
	at, ok := parseExpiry(expire)
	if !ok {
		return DefaultMaxAge
	}

	secs := math.Round(at.Sub(now).Seconds())
	if secs <= 0 {
		return DefaultMaxAge
	}

	return int(secs)
}

// parseExpiry reads expire as a date, falling back to Unix seconds.
func parseExpiry(expire string) (time.Time, bool) {
	expire = strings.TrimSpace(expire)
	if expire == "" {
		return time.Time{}, false
	}

	for _, layout := range expiryLayouts {
		if at, err := time.Parse(layout, expire); err == nil {
			return at, true
		}
	}

	if secs, err := strconv.ParseInt(expire, 10, 64); err == nil {
		return time.Unix(secs, 0), true
	}

	return time.Time{}, false
}

func newCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	}
}
