// Package telemetry exposes the server's Prometheus metrics: issued sequence
// codes, cross-tenant denials, and HTTP request durations.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can run side by side without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	codesIssued        *prometheus.CounterVec
	crossTenantDenials *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates and registers the server metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		codesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sequence_codes_issued_total",
			Help: "Sequence codes minted, by entity type.",
		}, []string{"entity"}),
		crossTenantDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenancy_cross_tenant_denials_total",
			Help: "Denied cross-tenant access attempts, by entity type.",
		}, []string{"entity"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency, by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.codesIssued,
		m.crossTenantDenials,
		m.requestDuration,
	)
	return m
}

// CodeIssued implements sequence.Recorder.
func (m *Metrics) CodeIssued(entity string) {
	m.codesIssued.WithLabelValues(entity).Inc()
}

// CrossTenantDenied implements tenancy.DenialRecorder.
func (m *Metrics) CrossTenantDenied(entity string) {
	m.crossTenantDenials.WithLabelValues(entity).Inc()
}

// Middleware observes request durations. The route pattern is used instead
// of the raw path to keep label cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			// On error the response is not committed yet; take the status
			// from the error instead of the ResponseWriter.
			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			m.requestDuration.WithLabelValues(
				c.Request().Method,
				route,
				strconv.Itoa(status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the exposition endpoint.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
