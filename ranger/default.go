package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/handler"
	"github.com/xy-planning-network/portal/http/middleware"
	"github.com/xy-planning-network/portal/http/proxy"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/http/template"
	"github.com/xy-planning-network/portal/logger"
	"github.com/xy-planning-network/portal/tokenstore"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// App metadata
	AppTitleEnvVar  = "APP_TITLE"
	defaultAppTitle = "portal"
	ContactUsEnvVar = "CONTACT_US_EMAIL"

	// Backend defaults
	APIBaseURLEnvVar      = "API_BASE_URL"
	upstreamTimeoutEnvVar = "UPSTREAM_TIMEOUT"

	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// CORS defaults
	corsOriginEnvVar = "CORS_ORIGIN"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Maintenance defaults
	maintenanceEnvVar = "MAINTENANCE_MODE"

	// Redis defaults
	redisURLEnvVar      = "REDIS_URL"
	redisPasswordEnvVar = "REDIS_PASSWORD"
	redisPingTimeout    = 2 * time.Second

	// Web server defaults
	DefaultHost               = "localhost"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 10 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAge           = 3600 * 24 * 7
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// defaultOpts lists the options filling in whatever New's caller left unset.
// Order matters: later defaults read what earlier ones configured.
func defaultOpts() []RangerOption {
	return []RangerOption{
		WithContext(context.Background()),
		WithEnv(portal.EnvVarOrEnv(environmentEnvVar, portal.Development).String()),
		defaultLogger,
		WithURL(portal.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL).String()),
		WithMaintenance(portal.EnvVarOrBool(maintenanceEnvVar, false)),
		defaultContact,
		defaultRedis,
		defaultSessionStore,
		WithResolver(endpoint.New(endpoint.Config{BaseURL: os.Getenv(APIBaseURLEnvVar)}, nil)),
		WithUpstreamClient(&http.Client{Timeout: portal.EnvVarOrDuration(upstreamTimeoutEnvVar, 0)}),
		defaultProxy,
		defaultTokenStore,
		defaultParser,
		defaultResponder,
		defaultServer,
		defaultRouter,
	}
}

// defaultLogger constructs a logger.Logger configured for use in the application.
// When SENTRY_DSN is set, WARN and above are also reported to Sentry.
func defaultLogger(rng *Ranger) (OptFollowup, error) {
	if rng.l != nil {
		return nil, nil
	}

	pl := logger.New(
		logger.WithEnv(rng.env.String()),
		logger.WithLevel(logger.NewLogLevel(os.Getenv(logLevelEnvVar))),
	)

	rng.l = pl
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		rng.l = logger.NewSentryLogger(pl, dsn)
		rng.l.Debug("using SentryLogger for app logger", nil)
	}

	return nil, nil
}

func defaultContact(rng *Ranger) (OptFollowup, error) {
	if rng.contact == "" {
		rng.contact = os.Getenv(ContactUsEnvVar)
	}

	return nil, nil
}

// defaultRedis connects to REDIS_URL, if set.
func defaultRedis(rng *Ranger) (OptFollowup, error) {
	addr := os.Getenv(redisURLEnvVar)
	if rng.redis != nil || addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv(redisPasswordEnvVar),
	})

	ctx, cancel := context.WithTimeout(rng.ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not reach redis at %s: %w", addr, err)
	}

	rng.redis = client
	rng.l.Debug("mirroring tokens into redis", &logger.LogContext{Data: map[string]any{"addr": addr}})
	return nil, nil
}

// defaultSessionStore constructs a SessionStorer to be used for storing session data.
//
// defaultSessionStore relies on these env vars:
//   - APP_TITLE
//   - SESSION_AUTH_KEY
//   - SESSION_ENCRYPTION_KEY
//   - REDIS_URL and REDIS_PASSWORD, backing sessions with Redis when set
//
// Both KEY env vars must be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore(rng *Ranger) (OptFollowup, error) {
	if rng.sessions != nil {
		return nil, nil
	}

	cfg := session.Config{
		AuthKey:     os.Getenv(SessionAuthKeyEnvVar),
		EncryptKey:  os.Getenv(SessionEncryptKeyEnvVar),
		Env:         rng.env,
		SessionName: SessionName(portal.EnvVarOrString(AppTitleEnvVar, defaultAppTitle)),
	}

	args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
	if addr := os.Getenv(redisURLEnvVar); addr != "" {
		args = append(args, session.WithRedis(addr, os.Getenv(redisPasswordEnvVar)))
	} else {
		args = append(args, session.WithCookie())
	}

	store, err := session.NewStoreService(cfg, args...)
	if err != nil {
		return nil, err
	}

	rng.sessions = store
	return nil, nil
}

// SessionName normalizes title into a cookie-safe session name,
// e.g., "XY's Portal: Beta" becomes "xys-portal-beta".
func SessionName(title string) string {
	name := cases.Lower(language.English).String(strings.TrimSpace(title))
	name = regexp.MustCompile(`[,':]`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, "-")
	if name == "" {
		return defaultAppTitle
	}

	return name
}

func defaultProxy(rng *Ranger) (OptFollowup, error) {
	if rng.proxy == nil {
		rng.proxy = proxy.New(proxy.Config{
			Upstream: proxy.UpstreamFromEnv(),
			Client:   rng.upstream,
			Logger:   rng.l,
		})
	}

	return nil, nil
}

func defaultTokenStore(rng *Ranger) (OptFollowup, error) {
	if rng.tokens == nil {
		rng.tokens = tokenstore.New(rng.l)
	}

	return nil, nil
}

// defaultParser constructs a template.Parser to be used
// when responding to HTTP requests with [*resp.Responder.Html].
//
// defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "isDevelopment"
//   - "isProduction"
//   - "nonce"
//   - "rootUrl"
func defaultParser(rng *Ranger) (OptFollowup, error) {
	if rng.p != nil {
		return nil, nil
	}

	rng.p = template.NewParser(
		template.WithFS(os.DirFS(".")),
		template.WithFn(template.Env(rng.env)),
		template.WithFn("isDevelopment", rng.env.IsDevelopment),
		template.WithFn("isProduction", rng.env.IsProduction),
	)

	return nil, nil
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
func defaultResponder(rng *Ranger) (OptFollowup, error) {
	if rng.Responder != nil {
		return nil, nil
	}

	args := []resp.ResponderOptFn{
		resp.WithErrTemplate(handler.ErrorTmpl),
		resp.WithLayoutTemplate(handler.LayoutTmpl),
		resp.WithLogger(rng.l),
		resp.WithParser(rng.p),
		resp.WithRootUrl(rng.url.String()),
	}

	if rng.contact != "" {
		args = append(args, resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, rng.contact)))
	}

	rng.Responder = resp.NewResponder(args...)
	return nil, nil
}

// defaultServer constructs a default [*http.Server].
func defaultServer(rng *Ranger) (OptFollowup, error) {
	if rng.srv != nil {
		return nil, nil
	}

	port := portal.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	ctx := rng.ctx
	rng.srv = &http.Server{
		Addr:         port,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		IdleTimeout:  portal.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  portal.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: portal.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}

	return nil, nil
}

// defaultRouter returns a followup constructing the [*router.Router] once every component is set.
//
// Every request gets a request ID, proxy headers, HTTPS enforcement, its IP address,
// logging and a session.
// Pages additionally allow CORS_ORIGIN; the auth proxy answers its own preflights
// and is rate limited per IP address.
func defaultRouter(rng *Ranger) (OptFollowup, error) {
	return func() error {
		if rng.Router != nil {
			return nil
		}

		logReq := middleware.LogRequest(rng.l)
		rt := router.New(rng.env, logReq)
		rt.OnEveryRequest(
			middleware.ProxyHeaders(),
			middleware.RequestID(),
			middleware.ForceHTTPS(rng.env),
			middleware.InjectIPAddress(),
			logReq,
			middleware.InjectSession(rng.sessions),
		)

		if rng.maint {
			rt.CatchAll(MaintModeHandler(rng.p, rng.l, rng.contact))
			rng.l.Warn("maintenance mode is on", nil)
		} else {
			h := handler.New(handler.Config{
				Client:    rng.upstream,
				Logger:    rng.l,
				Redis:     rng.redis,
				Resolver:  rng.resolver,
				Responder: rng.Responder,
				Tokens:    rng.tokens,
			})

			rt.HandleRoutes(rng.proxy.Routes(middleware.RateLimit(middleware.NewVisitors())))
			rt.HandleRoutes(h.Routes(), middleware.CORS(os.Getenv(corsOriginEnvVar)))
			rt.HandleNotFound(h.NotFound)
		}

		rng.Router = rt
		rng.srv.Handler = rt
		return nil
	}, nil
}
