/*
Package ranger initializes and manages the portal with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type, constructed with [New].
Options passed to [New] are applied first;
defaults then fill in every component still unset.

[*Ranger.Guide] begins the web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000).
Stop that web server with [*Ranger.Shutdown] or send a signal [*Ranger.Guide] listens for.

# Configuration

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - API_BASE_URL: the base URL of the backend API; default: the page's origin unless it is loopback, else http://localhost:8080
  - APP_TITLE: a short title for the application, used to name the session cookie; default: portal
  - AUTH_API_URL: the upstream auth API the /api/auth routes forward to; default: PUBLIC_API_BASE_URL
  - BASE_URL: the base URL the application runs on
  - CONTACT_US_EMAIL: the email address visitors can reach support at
  - CORS_ORIGIN: the origin allowed to make credentialed cross-origin requests; default: none
  - ENVIRONMENT: the environment the application is running in; cf. [portal.Environment]
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - MAINTENANCE_MODE: when true, every request gets the maintenance page
  - PORT: the port the application should listen on; default: :3000
  - PUBLIC_API_BASE_URL: the publicly exposed API base, the second choice for the auth upstream; default: http://localhost:8080
  - REDIS_PASSWORD: the password for authenticating to Redis
  - REDIS_URL: the host:port of a Redis server; when set, sessions live there and token copies are mirrored there
  - SENTRY_DSN: where to report errors and panics
  - SERVER_IDLE_TIMEOUT: the timeout, as understood by [time.ParseDuration], for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout for writing HTTP responses; default: 10s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies
  - UPSTREAM_TIMEOUT: the timeout for calls to the auth upstream; default: none
*/
package ranger
