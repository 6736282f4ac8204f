package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store/disk"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	srv     *server.Server
	handler http.Handler
	users   *MockUsersStore
	blogs   *MockBlogsStore
	health  *MockHealthStore
	files   *disk.FilesStore
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		BindAddress:        "127.0.0.1",
		JWTSecret:          testSecret,
		TokenTTL:           24 * time.Hour,
		UploadDir:          "uploads",
		MaxUploadSize:      config.DefaultMaxUploadSize,
		UploadTimeout:      time.Minute,
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "info",
		RejectInactive:     true,
		BcryptCost:         bcrypt.MinCost,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	files, err := disk.NewFilesStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	env := &testEnv{
		users:  &MockUsersStore{},
		blogs:  &MockBlogsStore{},
		health: &MockHealthStore{},
		files:  files,
	}

	srv, err := server.NewServer(testConfig(), nil, nil, server.Stores{
		Users:  env.users,
		Blogs:  env.blogs,
		Files:  env.files,
		Health: env.health,
	})
	require.NoError(t, err)
	RegisterAll(srv)

	env.srv = srv
	env.handler = srv.Handler()
	return env
}

// bearer returns an Authorization header for an active user holding level
func (e *testEnv) bearer(t *testing.T, userID string, level role.Role) string {
	t.Helper()
	e.users.On("IsActive", userID).Return(true, nil).Maybe()
	e.users.On("FindRole", userID).Return(level, nil).Maybe()
	e.users.On("FindAccess", userID).Return(level, true, nil).Maybe()

	raw, err := e.srv.Tokens.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + raw
}

func (e *testEnv) do(method, target, auth string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.Equal(t, w.Code, env.Code, "code mirrors the HTTP status")
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
	return env
}

func newRequest(method, target string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, target, body)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}
