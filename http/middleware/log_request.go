package middleware

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/logger"
)

// LogRequest logs the request's originating IP address, method, requested URL,
// response status and size using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following query params:
//   - password
//   - token
//
// If logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, h, func(_ io.Writer, p handlers.LogFormatterParams) {
			uri := p.URL.Path
			q := p.URL.Query()
			portal.Mask(q, "password")
			portal.Mask(q, "token")
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{p.Request.Method, uri, fmt.Sprint(p.StatusCode), fmt.Sprint(p.Size)}
			if ip := IPAddressFromContext(p.Request.Context()); ip != "" {
				strs = append([]string{ip}, strs...)
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Caller: "middleware/log_request.go"})
		})
	}
}
