package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/proxy"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/http/template"
	"github.com/xy-planning-network/portal/logger"
	"github.com/xy-planning-network/portal/tokenstore"
)

const shutdownTimeout = 5 * time.Second

// A Ranger manages and exposes all components of the portal to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	ctx      context.Context
	cancel   context.CancelFunc
	contact  string
	env      portal.Environment
	l        logger.Logger
	maint    bool
	p        template.Parser
	proxy    *proxy.AuthProxy
	redis    redis.UniversalClient
	resolver *endpoint.Resolver
	sessions session.SessionStorer
	srv      *http.Server
	tokens   *tokenstore.Store
	upstream *http.Client
	url      *url.URL
}

// New constructs a Ranger from the provided options.
// Options passed into New are applied first;
// defaults then configure whatever those options left unset.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE: some options require data from others.
	// These return an OptFollowup called after every option has run.
	for _, opt := range append(opts, defaultOpts()...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}

	return r, nil
}

func (r *Ranger) EmitEnv() portal.Environment             { return r.env }
func (r *Ranger) EmitLogger() logger.Logger               { return r.l }
func (r *Ranger) EmitProxy() *proxy.AuthProxy             { return r.proxy }
func (r *Ranger) EmitResolver() *endpoint.Resolver        { return r.resolver }
func (r *Ranger) EmitSessionStore() session.SessionStorer { return r.sessions }
func (r *Ranger) EmitTokenStore() *tokenstore.Store       { return r.tokens }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
//   - os.Interrupt
//   - syscall.SIGHUP
//   - syscall.SIGINT
//   - syscall.SIGQUIT
//   - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			r.cancel()
		case <-r.ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("could not listen: %w", err)
			r.l.Error(err.Error(), &logger.LogContext{Error: err})
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		r.cancel()
		return err
	case <-r.ctx.Done():
		return r.Shutdown()
	}
}

// Shutdown shuts down the web server, waiting up to 5 seconds for requests to drain,
// and closes the Redis client, if any.
func (r *Ranger) Shutdown() error {
	defer r.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(ctx)
	if r.redis != nil {
		if rerr := r.redis.Close(); rerr != nil {
			r.l.Warn("could not close redis client", &logger.LogContext{Error: rerr})
		}
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
