package session

import (
	"context"
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/portal"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Remove(w http.ResponseWriter, r *http.Request, key string) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The PortalSessionable composes session's major interfaces.
type PortalSessionable interface {
	FlashSessionable
	Sessionable
}

// A Session provides all functionality for managing a fully featured session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

var _ PortalSessionable = Session{}

// NewSession constructs a new Session as an implementation of PortalSessionable.
func NewSession(g *gorilla.Session) PortalSessionable { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0, len(raw))
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}

	if len(raw) > 0 {
		// NOTE(dlk): Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// GetString retrieves a string value from the session.
// ErrNoValue returns if key is unset; ErrNotValid if the value is not a string.
func (s Session) GetString(key string) (string, error) {
	raw, ok := s.s.Values[key]
	if !ok {
		return "", ErrNoValue
	}

	val, ok := raw.(string)
	if !ok {
		return "", ErrNotValid
	}

	return val, nil
}

// Remove deletes the value stored under key and saves the session.
func (s Session) Remove(w http.ResponseWriter, r *http.Request, key string) error {
	delete(s.s.Values, key)
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// FromContext retrieves the Session stashed under portal.SessionKey.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(portal.SessionKey).(Session)
	if !ok || s.s == nil {
		return Session{}, false
	}

	return s, true
}
