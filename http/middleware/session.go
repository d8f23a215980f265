package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/http/session"
)

// InjectSession stores the session associated with the *http.Request
// in *http.Request.Context under portal.SessionKey.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// NOTE: a session that fails to decode is replaced by a new one.
			s, _ := store.GetSession(r)
			ctx := context.WithValue(r.Context(), portal.SessionKey, s)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
