/*
The middleware package defines what a middleware is in portal and a set of basic middlewares.

The available middlewares are:
  - CORS
  - ForceHTTPS
  - InjectIPAddress
  - InjectSession
  - LogRequest
  - ProxyHeaders
  - RateLimit
  - RequestID

Due to the amount of configuration required, middleware does not provide a default middleware chain.
Package ranger assembles one; it looks like this:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.ProxyHeaders(),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
	}
*/
package middleware
