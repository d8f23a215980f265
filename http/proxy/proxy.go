package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/middleware"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/logger"
)

const (
	// RoutePath is the gorilla/mux pattern the proxy answers on.
	RoutePath = "/api/auth/{action:login|register}"

	invalidJSONMsg = "Invalid JSON body"
	unreachableMsg = "Upstream auth service unreachable"
)

// Config holds what an AuthProxy needs.
// A zero Client means http.DefaultClient, which has no timeout.
type Config struct {
	Upstream string
	Client   *http.Client
	Logger   logger.Logger
}

// An AuthProxy relays auth requests to the upstream auth API.
type AuthProxy struct {
	upstream string
	client   *http.Client
	logger   logger.Logger
}

// New constructs an *AuthProxy from cfg.
// A blank cfg.Upstream falls back to endpoint.DefaultBaseURL.
func New(cfg Config) *AuthProxy {
	p := &AuthProxy{
		upstream: strings.TrimRight(strings.TrimSpace(cfg.Upstream), "/"),
		client:   cfg.Client,
		logger:   cfg.Logger,
	}

	if p.upstream == "" {
		p.upstream = endpoint.DefaultBaseURL
	}

	if p.client == nil {
		p.client = http.DefaultClient
	}

	if p.logger == nil {
		p.logger = logger.New()
	}

	return p
}

// UpstreamFromEnv reads the upstream base URL from AUTH_API_URL, then PUBLIC_API_BASE_URL,
// defaulting to endpoint.DefaultBaseURL.
// Trailing slashes are stripped.
func UpstreamFromEnv() string {
	u := portal.EnvVarsOrString(endpoint.DefaultBaseURL, "AUTH_API_URL", "PUBLIC_API_BASE_URL")
	if u = strings.TrimRight(u, "/"); u == "" {
		return endpoint.DefaultBaseURL
	}

	return u
}

// Upstream returns the base URL requests are forwarded to.
func (p *AuthProxy) Upstream() string { return p.upstream }

// Routes returns the POST and OPTIONS routes for the proxy,
// each carrying the middlewares passed in.
func (p *AuthProxy) Routes(mws ...middleware.Adapter) []router.Route {
	return []router.Route{
		{Path: RoutePath, Method: http.MethodPost, Handler: p.Forward, Middlewares: mws},
		{Path: RoutePath, Method: http.MethodOptions, Handler: p.Preflight, Middlewares: mws},
	}
}

// Preflight answers CORS preflight requests permissively.
func (p *AuthProxy) Preflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusNoContent)
}

// Forward validates the inbound body is JSON and relays it to the upstream.
//
// The inbound request's context bounds the upstream call.
func (p *AuthProxy) Forward(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	if action == "" {
		action = strings.TrimPrefix(r.URL.Path, "/api/auth/")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		if err == nil {
			err = ErrInvalidJSON
		}

		p.logger.Debug(err.Error(), &logger.LogContext{Request: r, Error: err})
		writeMessage(w, http.StatusBadRequest, invalidJSONMsg)
		return
	}

	target := p.upstream + "/auth/" + action
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		p.unreachable(w, r, target, err)
		return
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		p.unreachable(w, r, target, err)
		return
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		p.unreachable(w, r, target, err)
		return
	}

	if ct := res.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	w.WriteHeader(res.StatusCode)
	if _, err := w.Write(payload); err != nil {
		p.logger.Warn("failed relaying upstream response", &logger.LogContext{Request: r, Error: err})
	}
}

func (p *AuthProxy) unreachable(w http.ResponseWriter, r *http.Request, target string, err error) {
	err = fmt.Errorf("%w: %s", ErrUnreachable, err)
	p.logger.Error(err.Error(), &logger.LogContext{
		Data:    map[string]any{"upstream": target},
		Error:   err,
		Request: r,
	})

	writeMessage(w, http.StatusBadGateway, unreachableMsg)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
