package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/xy-planning-network/portal/authclient"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/req"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/logger"
	"github.com/xy-planning-network/portal/tokenstore"
)

// Templates rendered by the pages, found in http/template's embedded tmpl/ unless overridden.
const (
	LayoutTmpl   = "tmpl/layout/base.tmpl"
	ErrorTmpl    = "tmpl/error.tmpl"
	HomeTmpl     = "tmpl/home.tmpl"
	LoginTmpl    = "tmpl/login.tmpl"
	RegisterTmpl = "tmpl/register.tmpl"
)

const (
	LoginPath    = "/login"
	LogoutPath   = "/logout"
	RegisterPath = "/register"
	NoAccessPath = "/401"

	// visitorKey holds the session's id for namespacing Redis keys.
	visitorKey  = "visitor"
	redisPrefix = "portal:token"

	notFoundMsg = "We couldn't find that page."
)

// An Authenticator logs visitors in and registers them.
// *authclient.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, creds authclient.Credentials) (authclient.Session, error)
	Register(ctx context.Context, reg authclient.Registration) error
}

// Config holds the collaborators a Handler needs.
//
// Auth defaults to an *authclient.Client calling the configured backend base,
// or the local default when none is configured.
// Redis is optional; when set, token copies are mirrored there.
type Config struct {
	Auth      func(r *http.Request) Authenticator
	Client    *http.Client
	Logger    logger.Logger
	Parser    *req.Parser
	Redis     redis.Cmdable
	Resolver  *endpoint.Resolver
	Responder *resp.Responder
	Tokens    *tokenstore.Store
}

// A Handler serves the portal's pages.
type Handler struct {
	*resp.Responder
	auth     func(r *http.Request) Authenticator
	logger   logger.Logger
	parser   *req.Parser
	redis    redis.Cmdable
	resolver *endpoint.Resolver
	tokens   *tokenstore.Store
}

// New constructs a *Handler from cfg, filling in defaults for what is unset.
func New(cfg Config) *Handler {
	h := &Handler{
		Responder: cfg.Responder,
		auth:      cfg.Auth,
		logger:    cfg.Logger,
		parser:    cfg.Parser,
		redis:     cfg.Redis,
		resolver:  cfg.Resolver,
		tokens:    cfg.Tokens,
	}

	if h.logger == nil {
		h.logger = logger.New()
	}

	if h.Responder == nil {
		h.Responder = resp.NewResponder(resp.WithLogger(h.logger))
	}

	if h.parser == nil {
		h.parser = req.NewParser()
	}

	if h.resolver == nil {
		h.resolver = endpoint.New(endpoint.Config{}, nil)
	}

	if h.tokens == nil {
		h.tokens = tokenstore.New(h.logger)
	}

	if h.auth == nil {
		// Server-side calls never follow the inbound Host or X-Forwarded-Host.
		client := authclient.New(h.resolver.WithLocator(endpoint.NoLocation), authclient.WithHTTPClient(cfg.Client))
		h.auth = func(*http.Request) Authenticator { return client }
	}

	return h
}

// Routes lists the page routes.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: h.Index},
		{Path: LoginPath, Method: http.MethodGet, Handler: h.LoginPage},
		{Path: LoginPath, Method: http.MethodPost, Handler: h.Login},
		{Path: RegisterPath, Method: http.MethodGet, Handler: h.RegisterPage},
		{Path: RegisterPath, Method: http.MethodPost, Handler: h.Register},
		{Path: LogoutPath, Method: http.MethodPost, Handler: h.Logout},
		{Path: NoAccessPath, Method: http.MethodGet, Handler: h.Unauthorized},
	}
}

// resolverFor resolves the API base against the origin r came in on.
// It is for display only; outbound calls use the fixed resolver.
func (h *Handler) resolverFor(r *http.Request) *endpoint.Resolver {
	return h.resolver.WithLocator(endpoint.RequestLocator{R: r})
}

// target assembles where token copies live for the request being handled.
// Without a session, the target is not interactive and token operations do nothing.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) tokenstore.Target {
	s, err := h.Session(r)
	if err != nil {
		return tokenstore.Target{}
	}

	storages := tokenstore.Storages{tokenstore.SessionStorage{S: s, W: w, R: r}}
	if h.redis != nil {
		if id, err := h.visitorID(w, r, s); err == nil {
			prefix := fmt.Sprintf("%s:%s", redisPrefix, id)
			storages = append(storages, tokenstore.NewRedisStorage(r.Context(), h.redis, prefix))
		} else {
			h.logger.Warn("no visitor id, skipping redis mirror", &logger.LogContext{Error: err, Request: r})
		}
	}

	return tokenstore.Target{Storage: storages, Cookies: tokenstore.ResponseCookies{W: w}}
}

// visitorID returns the id stored in the session, minting one if there is none.
func (h *Handler) visitorID(w http.ResponseWriter, r *http.Request, s session.Session) (string, error) {
	if id, err := s.GetString(visitorKey); err == nil && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := s.Set(w, r, visitorKey, id); err != nil {
		return "", err
	}

	return id, nil
}

// signedIn reports whether the session holds a token.
func (h *Handler) signedIn(r *http.Request) bool {
	s, err := h.Session(r)
	if err != nil {
		return false
	}

	token, err := s.GetString(tokenstore.StorageKeys[0])
	return err == nil && token != ""
}
