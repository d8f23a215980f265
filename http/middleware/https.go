package middleware

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/portal"
)

// ForceHTTPS redirects HTTP requests to HTTPS in production and staging.
//
// The "X-Forwarded-Proto" is used to check whether HTTP was requested due to a portal application
// running behind a proxy.
func ForceHTTPS(env portal.Environment) Adapter {
	if !(env.IsProduction() || env.IsStaging()) {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
