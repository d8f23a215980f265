package tokenstore

import (
	"net/http"
)

const (
	// CookieName is the cookie the token is persisted under.
	CookieName = "token"

	// DefaultMaxAge is the cookie lifetime, in seconds, when no usable expiry is known.
	DefaultMaxAge = 86400
)

// StorageKeys are the keys the token is persisted under in a Storage.
// Readers elsewhere expect one or another of these names.
var StorageKeys = []string{"token", "jwt", "access_token"}

// A Storage is a key-value store the token is copied into.
type Storage interface {
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// A CookieJar accepts cookies to hand to the browser.
type CookieJar interface {
	SetCookie(c *http.Cookie) error
}

// A Target bundles the places a token can be persisted for the current execution context.
type Target struct {
	Storage Storage
	Cookies CookieJar
}

// Interactive asserts whether t can hold a token at all.
func (t Target) Interactive() bool {
	return t.Storage != nil && t.Cookies != nil
}
