// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing, so handlers and tests can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	// LoginAttempts counts login calls by result ("ok" or "rejected").
	LoginAttempts *prometheus.CounterVec

	// TopicsCreated counts explicitly created topics.
	TopicsCreated prometheus.Counter

	// CardsCreated counts stored cards.
	CardsCreated prometheus.Counter

	// RequestDuration tracks HTTP latency by method, route pattern and status.
	RequestDuration *prometheus.HistogramVec

	// StoreUp is 1 while the last store ping succeeded.
	StoreUp prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flashcards_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		TopicsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flashcards_topics_created_total",
			Help: "Topics created through the API",
		}),
		CardsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flashcards_cards_created_total",
			Help: "Cards created through the API",
		}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flashcards_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		StoreUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flashcards_store_up",
			Help: "Whether the last store ping succeeded",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.LoginAttempts,
		m.TopicsCreated,
		m.CardsCreated,
		m.RequestDuration,
		m.StoreUp,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLogin records a login attempt.
func (m *Metrics) ObserveLogin(ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "ok"
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// TopicCreated records a created topic.
func (m *Metrics) TopicCreated() {
	if m == nil {
		return
	}
	m.TopicsCreated.Inc()
}

// CardCreated records a stored card.
func (m *Metrics) CardCreated() {
	if m == nil {
		return
	}
	m.CardsCreated.Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// SetStoreUp records the outcome of a store health check.
func (m *Metrics) SetStoreUp(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.StoreUp.Set(1)
	} else {
		m.StoreUp.Set(0)
	}
}
