// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service records. A nil *Collector is
// valid and records nothing, so components can be built without metrics.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	authzDecisions   *prometheus.CounterVec
	auditFailures    prometheus.Counter
	identityEvents   *prometheus.CounterVec
	apiKeyRateLimits prometheus.Counter
}

// NewCollector registers all collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantkit_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tenantkit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantkit_authz_decisions_total",
			Help: "Authorization decisions by permission and result.",
		}, []string{"permission", "result"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenantkit_audit_write_failures_total",
			Help: "Audit entries that could not be written.",
		}),
		identityEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantkit_identity_events_total",
			Help: "Identity provider webhook events by type and result.",
		}, []string{"type", "result"}),
		apiKeyRateLimits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenantkit_api_key_rate_limited_total",
			Help: "API key requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authzDecisions,
		c.auditFailures,
		c.identityEvents,
		c.apiKeyRateLimits,
	)

	return c
}

func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveDecision records a guard outcome. check is a permission tag or "role".
func (c *Collector) ObserveDecision(check string, allowed bool) {
	if c == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	c.authzDecisions.WithLabelValues(check, result).Inc()
}

func (c *Collector) AuditWriteFailed() {
	if c == nil {
		return
	}
	c.auditFailures.Inc()
}

// ObserveIdentityEvent records a webhook delivery. result is one of
// processed, duplicate, ignored, failed.
func (c *Collector) ObserveIdentityEvent(eventType, result string) {
	if c == nil {
		return
	}
	c.identityEvents.WithLabelValues(eventType, result).Inc()
}

func (c *Collector) APIKeyRateLimited() {
	if c == nil {
		return
	}
	c.apiKeyRateLimits.Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
