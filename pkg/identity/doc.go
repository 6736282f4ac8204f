// Package identity carries the authenticated caller through a request.
//
// The authentication middleware verifies the bearer token and stores an
// Identity in the request context. Handlers and the permission middleware
// read it back:
//
//	ctx = identity.Set(ctx, identity.FromClaims(claims))
//
//	id, ok := identity.Get(ctx)
//	if !ok {
//	    // not authenticated
//	}
//
// # Identity vs Token
//
// The token package only deals with the signed credential. An Identity adds
// request context (the client address) and is the only thing downstream code
// should depend on. It deliberately carries no role: roles are read from the
// users table on every permission check.
package identity
