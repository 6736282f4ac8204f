// Package middleware provides the HTTP guards of the blog server.
//
// Authenticator validates the bearer token and stores an identity.Identity
// in the request context. Guard.RequireRole runs after it and compares the
// caller's stored role with the route's minimum role. Instrument feeds the
// Prometheus request metrics.
package middleware
