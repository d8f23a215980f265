package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/portal"
)

const requestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under portal.RequestIDKey
// and echoes it in the "X-Request-Id" response header.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(requestIDHeader, id)
			ctx := context.WithValue(r.Context(), portal.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
