package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/portal"
)

// ReportPanic encloses the env and returns a function that when called,
// wraps the passed in http.HandlerFunc in sentryhttp.HandleFunc
// in order to recover and report panics.
//
// In development, panics are left for net/http to recover.
func ReportPanic(env portal.Environment) func(http.HandlerFunc) http.HandlerFunc {
	if env.IsDevelopment() || env.IsTesting() {
		return func(handler http.HandlerFunc) http.HandlerFunc { return handler }
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.HandlerFunc) http.HandlerFunc {
		return sh.HandleFunc(handler)
	}
}
