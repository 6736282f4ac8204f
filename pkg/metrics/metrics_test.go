package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(authEventsTotal.WithLabelValues(EventLogin, "success"))
	AuthEvent(EventLogin, "success")
	assert.Equal(t, before+1, testutil.ToFloat64(authEventsTotal.WithLabelValues(EventLogin, "success")))

	bytesBefore := testutil.ToFloat64(uploadedBytesTotal)
	Uploaded(2048)
	assert.Equal(t, bytesBefore+2048, testutil.ToFloat64(uploadedBytesTotal))

	postsBefore := testutil.ToFloat64(postsTotal.WithLabelValues(PostCreated))
	Post(PostCreated)
	assert.Equal(t, postsBefore+1, testutil.ToFloat64(postsTotal.WithLabelValues(PostCreated)))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/blog/{id}", "404"))
	ObserveRequest("GET", "/blog/{id}", 404, 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/blog/{id}", "404")))
}
