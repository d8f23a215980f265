package middleware

import (
	"github.com/gorilla/handlers"
)

// ProxyHeaders promotes the "X-Forwarded-*" family of headers set by a reverse proxy
// onto the *http.Request: the remote address, r.URL.Scheme and r.Host.
//
// Only mount ProxyHeaders when portal runs behind a trusted proxy.
func ProxyHeaders() Adapter {
	return handlers.ProxyHeaders
}
