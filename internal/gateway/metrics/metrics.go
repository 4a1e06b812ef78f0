// Package metrics holds the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jdmatchr"

// Session issuing methods.
const (
	MethodCredentials = "credentials"
	MethodOAuth       = "oauth"
	MethodRegister    = "register"
)

// Session issuing outcomes.
const (
	OutcomeIssued   = "issued"
	OutcomeRejected = "rejected"
)

// Metrics is the set of collectors the gateway records into. A nil *Metrics
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	sessionsIssued  *prometheus.CounterVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: g,

		sessionsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Session tokens minted or refused, by sign-in method",
		}, []string{"method", "outcome"}),

		backendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Calls made to the Analysis Backend, by endpoint and status",
		}, []string{"endpoint", "status"}),

		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Analysis Backend call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// SessionIssued counts one sign-in attempt.
func (m *Metrics) SessionIssued(method string, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeIssued
	if !ok {
		outcome = OutcomeRejected
	}
	m.sessionsIssued.WithLabelValues(method, outcome).Inc()
}

// BackendRequest records one outbound call. status 0 means the call never
// got a response.
func (m *Metrics) BackendRequest(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(endpoint, label).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
