package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/identity"
	"github.com/doodlesbykumbi/blog-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/respond"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

const (
	msgNotLoggedIn     = "not logged in"
	msgInvalidToken    = "token invalid or expired"
	msgAccountDisabled = "account disabled"
)

var bearerRegex = regexp.MustCompile(`^(?i:bearer)\s+(\S+)\s*$`)

// Verifier checks a raw session token
type Verifier interface {
	Verify(raw string) (*token.Claims, error)
}

// ActiveChecker reports whether an account may still use its tokens
type ActiveChecker interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// Authenticator is middleware that validates bearer session tokens and
// attaches the caller's identity to the request context
type Authenticator struct {
	Tokens Verifier
	// Users is consulted on every request when non-nil. Deactivated
	// accounts are refused and deleted ones treated as invalid tokens.
	Users  ActiveChecker
	Logger *zap.Logger
}

// NewAuthenticator creates a new authenticator middleware. users may be nil
// to accept any validly signed token.
func NewAuthenticator(tokens Verifier, users ActiveChecker, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{Tokens: tokens, Users: users, Logger: log}
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		match := bearerRegex.FindStringSubmatch(r.Header.Get("Authorization"))
		if len(match) != 2 {
			metrics.AuthEvent(metrics.EventVerify, "missing")
			respond.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
			return
		}

		claims, err := a.Tokens.Verify(match[1])
		if err != nil {
			metrics.AuthEvent(metrics.EventVerify, "invalid")
			a.Logger.Debug("token rejected", zap.Error(err))
			respond.Error(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		if a.Users != nil {
			active, err := a.Users.IsActive(r.Context(), claims.Subject)
			switch {
			case errors.Is(err, store.ErrUserNotFound):
				metrics.AuthEvent(metrics.EventVerify, "unknown_subject")
				respond.Error(w, http.StatusUnauthorized, msgInvalidToken)
				return
			case err != nil:
				respond.Err(w, a.Logger, apperr.Internal("failed to load account", err))
				return
			case !active:
				metrics.AuthEvent(metrics.EventVerify, "inactive")
				respond.Error(w, http.StatusUnauthorized, msgAccountDisabled)
				return
			}
		}

		metrics.AuthEvent(metrics.EventVerify, "success")
		id := identity.FromClaims(claims).WithRemoteIP(RemoteIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RemoteIP returns the peer address of r, or nil when it cannot be parsed
func RemoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
