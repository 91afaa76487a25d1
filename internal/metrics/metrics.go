// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	RequestTime   *prometheus.HistogramVec
	Predictions   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Confidence    prometheus.Histogram
}

// New creates and registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ser_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		RequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ser_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ser_predictions_total",
			Help: "Classified clips by predicted emotion.",
		}, []string{"emotion"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ser_pipeline_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"stage"}),
		Confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ser_prediction_confidence",
			Help:    "Probability of the predicted class.",
			Buckets: prometheus.LinearBuckets(0.25, 0.125, 7),
		}),
	}

	m.Registry.MustRegister(
		m.Requests,
		m.RequestTime,
		m.Predictions,
		m.StageDuration,
		m.Confidence,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// ObservePrediction counts a successful classification.
func (m *Metrics) ObservePrediction(emotion string, confidence float64) {
	m.Predictions.WithLabelValues(emotion).Inc()
	m.Confidence.Observe(confidence)
}
