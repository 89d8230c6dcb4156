package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/v1/exercises", "GET", "200"))
	RecordHTTPRequest("/api/v1/exercises", "GET", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/v1/exercises", "GET", "200"))
	assert.Equal(t, before+1, after)

	RecordHTTPRequest("", "GET", 404, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("unmatched", "GET", "404")))
}

func TestRecordJobAndExternalCalls(t *testing.T) {
	RecordJobItem("descriptions", "skipped")
	assert.Equal(t, 1.0, testutil.ToFloat64(JobItemsTotal.WithLabelValues("descriptions", "skipped")))

	RecordExternalCall("openai", nil)
	RecordExternalCall("openai", errors.New("timeout"))
	assert.Equal(t, 1.0, testutil.ToFloat64(ExternalCallsTotal.WithLabelValues("openai", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ExternalCallsTotal.WithLabelValues("openai", "error")))
}
