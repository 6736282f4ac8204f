package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/blog-in-go/pkg/identity"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

var allowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func withIdentity(r *http.Request, userID string) *http.Request {
	return r.WithContext(identity.Set(r.Context(), &identity.Identity{UserID: userID}))
}

func TestRequireRole_Hierarchy(t *testing.T) {
	for _, required := range role.RoleValues() {
		for _, caller := range role.RoleValues() {
			users := &mockUsers{}
			users.On("FindAccess", "u1").Return(caller, true, nil)

			handler := RequireRole(users, required)(allowed)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/blog", nil), "u1"))

			if caller >= required {
				assert.Equal(t, http.StatusNoContent, rec.Code, "%s on %s route", caller, required)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s on %s route", caller, required)
				assert.Equal(t, "permission denied: "+required.DisplayName()+" or above required", message(t, rec))
			}
		}
	}
}

func TestRequireRole_Message(t *testing.T) {
	users := &mockUsers{}
	users.On("FindAccess", "u1").Return(role.Normal, true, nil)

	rec := httptest.NewRecorder()
	RequireRole(users, role.VIP)(allowed).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/blog", nil), "u1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission denied: VIP User or above required", message(t, rec))
}

func TestRequireRole_NoIdentity(t *testing.T) {
	users := &mockUsers{}

	rec := httptest.NewRecorder()
	RequireRole(users, role.Guest)(allowed).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not logged in", message(t, rec))
	users.AssertNotCalled(t, "FindAccess", "u1")
}

func TestRequireRole_LookupErrors(t *testing.T) {
	t.Run("deleted account is unauthorized", func(t *testing.T) {
		users := &mockUsers{}
		users.On("FindAccess", "gone").Return(role.Guest, false, store.ErrUserNotFound)

		rec := httptest.NewRecorder()
		RequireRole(users, role.Guest)(allowed).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), "gone"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		users := &mockUsers{}
		users.On("FindAccess", "u1").Return(role.Guest, false, errors.New("timeout"))

		rec := httptest.NewRecorder()
		RequireRole(users, role.VIP)(allowed).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), "u1"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireRole_InactiveAccount(t *testing.T) {
	users := &mockUsers{}
	users.On("FindAccess", "u1").Return(role.SuperAdmin, false, nil)

	// no Authenticator active check in front, as with reject_inactive=false
	rec := httptest.NewRecorder()
	RequireRole(users, role.Normal)(allowed).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/blog", nil), "u1"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "account disabled", message(t, rec))
	users.AssertExpectations(t)
}
