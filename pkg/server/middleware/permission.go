package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/identity"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/respond"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// AccessFinder reads the stored role and active flag of an account
type AccessFinder interface {
	FindAccess(ctx context.Context, id string) (role.Role, bool, error)
}

// Guard builds role-gated middleware. It must run after Authenticator.
type Guard struct {
	Users  AccessFinder
	Logger *zap.Logger
}

// NewGuard creates a Guard
func NewGuard(users AccessFinder, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{Users: users, Logger: log}
}

// RequireRole is shorthand for NewGuard(users, nil).RequireRole(required)
func RequireRole(users AccessFinder, required role.Role) func(http.Handler) http.Handler {
	return NewGuard(users, nil).RequireRole(required)
}

// RequireRole admits active callers whose stored role is at least required.
// Role and active flag are read on every request so changes apply to live
// tokens, whether or not the Authenticator checks the flag itself.
func (g *Guard) RequireRole(required role.Role) func(http.Handler) http.Handler {
	denied := "permission denied: " + required.DisplayName() + " or above required"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
				return
			}

			current, active, err := g.Users.FindAccess(r.Context(), id.UserID)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					respond.Error(w, http.StatusUnauthorized, msgInvalidToken)
					return
				}
				respond.Err(w, g.Logger, apperr.Internal("failed to load role", err))
				return
			}
			if !active {
				respond.Error(w, http.StatusUnauthorized, msgAccountDisabled)
				return
			}

			if !current.AtLeast(required) {
				g.Logger.Debug("permission denied",
					zap.String("user_id", id.UserID),
					zap.Stringer("role", current),
					zap.Stringer("required", required),
				)
				audit.Log(audit.PermissionDeniedEvent{
					UserID:   id.UserID,
					ClientIP: ipString(id.RemoteIP, r),
					Role:     current.String(),
					Required: required.String(),
					Method:   r.Method,
					Path:     r.URL.Path,
				})
				respond.Error(w, http.StatusForbidden, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ipString(ip net.IP, r *http.Request) string {
	if ip == nil {
		ip = RemoteIP(r)
	}
	if ip == nil {
		return r.RemoteAddr
	}
	return ip.String()
}
