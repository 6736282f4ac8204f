package endpoints

import (
	"errors"
	"net/http"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInfo(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info SystemInfo
	res := decodeData(t, w, &info)
	assert.Equal(t, "system info retrieved", res.Message)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "500MB", info.UploadLimit)
	assert.Equal(t, []string{"image/jpeg", "image/png", "application/pdf", "application/zip"}, info.SupportFileTypes)
	assert.WithinDuration(t, env.srv.StartTime, info.StartTime, 0)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity").Return(nil)

		w := env.do("GET", "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var report HealthReport
		decodeData(t, w, &report)
		assert.Equal(t, "healthy", report.Status)
		assert.Equal(t, "connected", report.Database)
		assert.Equal(t, "exists", report.UploadDir)
		assert.True(t, strings.HasSuffix(report.MemoryUsage.RSS, "MB"))
		assert.True(t, strings.HasSuffix(report.MemoryUsage.HeapUsed, "MB"))
		assert.NotZero(t, report.Timestamp)
	})

	t.Run("database down", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity").Return(errors.New("connection refused"))

		w := env.do("GET", "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var report HealthReport
		decodeData(t, w, &report)
		assert.Equal(t, "unhealthy", report.Status)
		assert.Equal(t, "disconnected", report.Database)
	})

	t.Run("upload dir missing", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity").Return(nil)
		require.NoError(t, os.RemoveAll(env.files.Root()))

		w := env.do("GET", "/health", "", nil)

		var report HealthReport
		decodeData(t, w, &report)
		assert.Equal(t, "unhealthy", report.Status)
		assert.Equal(t, "not exists", report.UploadDir)
	})
}

func TestRouting(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown route", func(t *testing.T) {
		w := env.do("GET", "/nope", "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, "route not found: GET /nope", res.Message)
		assert.Equal(t, "null", string(res.Data))
	})

	t.Run("wrong method", func(t *testing.T) {
		w := env.do("DELETE", "/health", "", nil)
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
		decodeEnvelope(t, w)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := newRequest("OPTIONS", "/blog", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := serve(env, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("metrics", func(t *testing.T) {
		env.health.On("CheckConnectivity").Return(nil)
		env.do("GET", "/health", "", nil)

		w := env.do("GET", "/metrics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `blog_http_requests_total{code="200",method="GET",route="/health"}`)
	})
}
