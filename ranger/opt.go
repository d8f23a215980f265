package ranger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/endpoint"
	"github.com/xy-planning-network/portal/http/proxy"
	"github.com/xy-planning-network/portal/http/resp"
	"github.com/xy-planning-network/portal/http/session"
	"github.com/xy-planning-network/portal/http/template"
	"github.com/xy-planning-network/portal/logger"
	"github.com/xy-planning-network/portal/tokenstore"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithEnv is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// The default router is an example of the second.
// It is built only once every other component is configured.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the portal.
// Canceling ctx stops Guide.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.ctx == nil {
			rng.ctx, rng.cancel = context.WithCancel(ctx)
		}

		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment.
// An invalid value leaves the Environment for the ENVIRONMENT env var to set.
func WithEnv(val string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := portal.Environment(val)
		if rng.env == "" && e.Valid() == nil {
			rng.env = e
		}

		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the portal.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.l == nil {
			rng.l = l
		}

		return nil, nil
	}
}

// WithMaintenance funnels every request to the maintenance page when on is true.
func WithMaintenance(on bool) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.maint = rng.maint || on
		return nil, nil
	}
}

// WithParser sets the template.Parser the default Responder renders with.
func WithParser(p template.Parser) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.p == nil {
			rng.p = p
		}

		return nil, nil
	}
}

// WithProxy exposes the *proxy.AuthProxy serving /api/auth to the portal.
func WithProxy(p *proxy.AuthProxy) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.proxy == nil {
			rng.proxy = p
		}

		return nil, nil
	}
}

// WithRedis exposes the Redis client token copies are mirrored into.
func WithRedis(client redis.UniversalClient) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.redis == nil {
			rng.redis = client
		}

		return nil, nil
	}
}

// WithResolver exposes the *endpoint.Resolver to the portal.
func WithResolver(res *endpoint.Resolver) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.resolver == nil {
			rng.resolver = res
		}

		return nil, nil
	}
}

// WithResponder exposes the *resp.Responder to the portal.
func WithResponder(r *resp.Responder) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.Responder == nil {
			rng.Responder = r
		}

		return nil, nil
	}
}

// WithServer exposes the *http.Server to the portal.
// Its Handler is replaced with the portal's router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.srv == nil {
			rng.srv = s
		}

		return nil, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the portal.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.sessions == nil {
			rng.sessions = store
		}

		return nil, nil
	}
}

// WithTokenStore exposes the *tokenstore.Store to the portal.
func WithTokenStore(s *tokenstore.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.tokens == nil {
			rng.tokens = s
		}

		return nil, nil
	}
}

// WithURL sets the base URL the portal runs on.
func WithURL(raw string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.url != nil {
			return nil, nil
		}

		u, err := url.ParseRequestURI(raw)
		if err != nil {
			return nil, fmt.Errorf("base url %q: %w", raw, err)
		}

		rng.url = u
		return nil, nil
	}
}

// WithUpstreamClient sets the *http.Client used for calls to the auth upstream.
func WithUpstreamClient(c *http.Client) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if rng.upstream == nil {
			rng.upstream = c
		}

		return nil, nil
	}
}
