package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePrediction(t *testing.T) {
	m := New()
	m.ObservePrediction("happy", 0.9)
	m.ObservePrediction("happy", 0.8)
	m.ObservePrediction("sad", 0.4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("happy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("sad")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveStage("extract", 0.01)
	m.Requests.WithLabelValues("/predict", "200").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ser_pipeline_stage_duration_seconds")
	assert.Contains(t, string(body), `ser_http_requests_total{route="/predict",status="200"} 1`)
}
