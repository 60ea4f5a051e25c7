// Package middleware provides the HTTP middleware chain: panic recovery,
// request ID assignment, session cookie handling, structured request
// logging, CORS, and per-route metrics. Handlers read the request ID and
// session ID out of the request context.
package middleware
