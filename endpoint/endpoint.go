package endpoint

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is where the backend listens during local development.
const DefaultBaseURL = "http://localhost:8080"

// loopbackHosts are hostnames that never identify a deployed backend.
var loopbackHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"[::1]":     {},
	"::1":       {},
}

// A Config holds the explicitly configured base URL, if any.
type Config struct {
	BaseURL string
}

// A Locator reports the origin of the page being served.
// The bool is false when there is no page.
type Locator interface {
	Origin() (*url.URL, bool)
}

// NoLocation is the Locator for execution contexts without a page.
var NoLocation Locator = noLocation{}

type noLocation struct{}

func (noLocation) Origin() (*url.URL, bool) { return nil, false }

// A LocatorFunc adapts a function into a Locator.
type LocatorFunc func() (*url.URL, bool)

func (fn LocatorFunc) Origin() (*url.URL, bool) { return fn() }

// RequestLocator derives the origin from an inbound request.
//
// The scheme is https when the request arrived over TLS
// or a proxy-aware middleware already set r.URL.Scheme
// from the X-Forwarded-Proto header.
type RequestLocator struct {
	R *http.Request
}

// Origin implements Locator.
func (rl RequestLocator) Origin() (*url.URL, bool) {
	if rl.R == nil || rl.R.Host == "" {
		return nil, false
	}

	scheme := "http"
	switch {
	case rl.R.URL != nil && rl.R.URL.Scheme != "":
		scheme = rl.R.URL.Scheme
	case rl.R.TLS != nil:
		scheme = "https"
	}

	return &url.URL{Scheme: scheme, Host: rl.R.Host}, true
}

// A Resolver decides the base URL direct backend calls are made against.
type Resolver struct {
	cfg Config
	loc Locator
}

// New constructs a *Resolver.
// A nil loc behaves as NoLocation.
func New(cfg Config, loc Locator) *Resolver {
	if loc == nil {
		loc = NoLocation
	}

	return &Resolver{cfg: cfg, loc: loc}
}

// WithLocator returns a copy of r using loc for origin detection,
// e.g., a [RequestLocator] for the request being handled.
func (r *Resolver) WithLocator(loc Locator) *Resolver {
	return New(r.cfg, loc)
}

// APIBaseURL returns the configured base URL if there is one,
// otherwise the current non-loopback origin,
// otherwise DefaultBaseURL.
//
// APIBaseURL never fails.
func (r *Resolver) APIBaseURL() string {
	if base, ok := NormalizeBaseURL(r.cfg.BaseURL); ok {
		return base
	}

	if origin, ok := r.loc.Origin(); ok && origin != nil && !IsLoopback(origin.Host) {
		return strings.TrimRight(origin.String(), "/")
	}

	return DefaultBaseURL
}

// BuildAPIURL joins path onto the resolved base URL,
// treating the base as a directory.
// When the base cannot be parsed into an absolute URL,
// BuildAPIURL concatenates the two instead.
//
// BuildAPIURL never fails.
func (r *Resolver) BuildAPIURL(path string) string {
	base := r.APIBaseURL()

	u, err := joinURL(base, path)
	if err == nil {
		return u
	}

	if strings.HasPrefix(path, "/") {
		return base + path
	}

	return base + "/" + path
}

// NormalizeBaseURL trims raw and strips trailing slashes from it.
// The lone "/" is kept as is.
// An empty value is reported as absent.
func NormalizeBaseURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if raw == "/" {
		return raw, true
	}

	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return "", false
	}

	return raw, true
}

// IsLoopback asserts whether host names the local machine.
// host may carry a port.
func IsLoopback(host string) bool {
	host = strings.ToLower(host)
	if _, ok := loopbackHosts[host]; ok {
		return true
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		if _, ok := loopbackHosts[h]; ok {
			return true
		}
	}

	return false
}

// joinURL resolves path against base as if base were a directory.
func joinURL(base, path string) (string, error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	if !b.IsAbs() || b.Host == "" {
		return "", errNotAbsolute
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	return b.ResolveReference(ref).String(), nil
}
