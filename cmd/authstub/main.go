// Command authstub runs an in-memory auth API for local development.
//
// It listens on PORT (default :8080) and signs tokens with AUTHSTUB_SECRET,
// generating a random secret when unset.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/portal"
	"github.com/xy-planning-network/portal/authstub"
	"github.com/xy-planning-network/portal/http/middleware"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/logger"
)

const (
	defaultPort  = ":8080"
	secretEnvVar = "AUTHSTUB_SECRET"
)

func main() {
	env := portal.EnvVarOrEnv("ENVIRONMENT", portal.Development)
	l := logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(logger.NewLogLevel(os.Getenv("LOG_LEVEL"))),
	)

	secret := os.Getenv(secretEnvVar)
	if secret == "" {
		secret = uuid.NewString()
		l.Warn(fmt.Sprintf("%s unset, tokens will not survive a restart", secretEnvVar), nil)
	}

	logReq := middleware.LogRequest(l)
	rt := router.New(env, logReq)
	rt.OnEveryRequest(middleware.RequestID(), logReq)
	rt.HandleRoutes(authstub.New([]byte(secret), authstub.WithLogger(l)).Routes())

	port := portal.EnvVarOrString("PORT", defaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           rt,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	l.Info(fmt.Sprintf("auth stub listening at %s", port), nil)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.Fatal(err.Error(), &logger.LogContext{Error: err})
		os.Exit(1)
	}
}
