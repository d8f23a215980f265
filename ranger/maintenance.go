package ranger

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/portal/http/handler"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/http/template"
	"github.com/xy-planning-network/portal/logger"
)

const (
	maintenanceTmpl = "tmpl/maintenance.tmpl"
	retryAfter      = "600"
)

// MaintModeHandler responds to every request with 503 Service Unavailable
// and the maintenance page, asking clients to retry in ten minutes.
// If the page cannot be rendered, the body is left empty.
func MaintModeHandler(p template.Parser, l logger.Logger, contact string) http.HandlerFunc {
	var msg string
	if contact != "" {
		msg = fmt.Sprintf("Questions? Reach us at %s.", contact)
	}

	data := struct {
		Data    map[string]any
		Flashes []session.Flash
	}{
		Data: map[string]any{"Contact": msg},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", retryAfter)

		buf := new(bytes.Buffer)
		tmpl, err := p.Parse(handler.LayoutTmpl, maintenanceTmpl)
		if err == nil {
			err = tmpl.Execute(buf, data)
		}

		if err != nil {
			l.Error("could not render maintenance page", &logger.LogContext{Error: err, Request: r})
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		buf.WriteTo(w)
	}
}
