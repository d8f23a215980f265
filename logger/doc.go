/*
Package logger provides logging functionality to a portal app by defining the required behavior in [Logger]
and providing an implementation of it with [PortalLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
A [PortalLogger] initialized at [LogLevelWarn]
only emits messages through [*PortalLogger.Warn], [*PortalLogger.Error], and [*PortalLogger.Fatal].

Log messages emitted by [PortalLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [WARN] tokenstore/store.go:88 'could not persist token' log_context: {"data":{"key":"jwt"},"error":"quota exceeded"}

The log context is a JSON-encoded [LogContext].
It carries data inessential to the message proper,
like the error that instigated the log or the request being handled.
Credentials in request headers are masked.

# SentryLogger

When configured with a DSN, [NewSentryLogger] wraps a [PortalLogger]
and ships warnings and errors carrying a [LogContext.Error] to Sentry.
*/
package logger
