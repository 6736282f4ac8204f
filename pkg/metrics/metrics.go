// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests by method, route template and status code.",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route template.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_events_total",
			Help: "Total number of authentication events by type and result.",
		},
		[]string{"event", "result"},
	)

	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_uploaded_bytes_total",
		Help: "Total number of bytes stored by successful uploads.",
	})

	postsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_posts_total",
			Help: "Total number of blog mutations by event.",
		},
		[]string{"event"},
	)
)

// Auth event names.
const (
	EventRegister      = "register"
	EventLogin         = "login"
	EventResetPassword = "reset_password"
	EventVerify        = "verify"
)

// Post event names.
const (
	PostCreated       = "created"
	PostUpdated       = "updated"
	PostDeleted       = "deleted"
	PostStatusChanged = "status_changed"
)

// ObserveRequest records one served request.
func ObserveRequest(method, route string, code int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// AuthEvent counts an authentication event. result is "success" or a short
// failure reason.
func AuthEvent(event, result string) {
	authEventsTotal.WithLabelValues(event, result).Inc()
}

// Uploaded adds n stored bytes.
func Uploaded(n int64) {
	uploadedBytesTotal.Add(float64(n))
}

// Post counts a blog mutation.
func Post(event string) {
	postsTotal.WithLabelValues(event).Inc()
}
