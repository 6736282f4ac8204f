package endpoints

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
)

// captureAudit turns auditing on for the test and collects its output
func captureAudit(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	audit.SetStore(nil)
	audit.DefaultLogger.SetWriter(&buf)
	audit.SetEnabled(true)
	t.Cleanup(func() {
		audit.SetEnabled(false)
		audit.DefaultLogger.SetWriter(&bytes.Buffer{})
	})
	return &buf
}

func TestAuditTrail(t *testing.T) {
	t.Run("login outcomes", func(t *testing.T) {
		buf := captureAudit(t)
		env := newTestEnv(t)
		user := &model.User{ID: "u1", Username: "alice", Password: hashed(t, "secret1"), Level: role.Normal, IsActive: true}
		env.users.On("FindByUsername", "alice").Return(user, nil)

		w := env.do("POST", "/user/login", "", jsonBody(t, map[string]string{"username": "alice", "password": "nope123"}))
		require.Equal(t, http.StatusNotFound, w.Code)
		w = env.do("POST", "/user/login", "", jsonBody(t, map[string]string{"username": "alice", "password": "secret1"}))
		require.Equal(t, http.StatusOK, w.Code)

		out := buf.String()
		assert.Contains(t, out, "alice failed to log in: username or password error")
		assert.Contains(t, out, "alice successfully logged in")
		assert.Contains(t, out, `[client@32473 ip="192.0.2.1"]`)
	})

	t.Run("permission denial", func(t *testing.T) {
		buf := captureAudit(t)
		env := newTestEnv(t)
		vip := env.bearer(t, "u-vip", role.VIP)

		w := env.do("DELETE", "/blog/b1", vip, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, buf.String(), "u-vip (vip) was denied DELETE /blog/b1: admin or above required")
	})

	t.Run("blog delete", func(t *testing.T) {
		buf := captureAudit(t)
		env := newTestEnv(t)
		admin := env.bearer(t, "u-admin", role.Admin)
		env.blogs.On("FindBlog", "b1").Return(sampleBlog("b1", "u-vip"), nil)
		env.blogs.On("DeleteBlog", "b1").Return(nil)

		w := env.do("DELETE", "/blog/b1", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, buf.String(), "u-admin performed delete on blog b1")
	})

	t.Run("disabled", func(t *testing.T) {
		var buf bytes.Buffer
		audit.DefaultLogger.SetWriter(&buf)
		audit.SetEnabled(false)

		env := newTestEnv(t)
		w := env.do("POST", "/user/register", "", jsonBody(t, map[string]string{
			"username":        "alice",
			"password":        "secret1",
			"confirmPassword": "secret2",
		}))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, buf.String())
	})
}
