/*
Package router wraps a gorilla/mux router with middleware stacks.

A [Route] pairs a path and an HTTP method with the handler called for matching requests.
Middlewares added with OnEveryRequest run before those passed to HandleRoutes,
which in turn run before those set on the Route itself.
Every handler is wrapped so panics get reported outside of development.
*/
package router
