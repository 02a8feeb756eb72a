package api

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects server metrics. Counters are kept both as atomics for
// /metricz and in a private Prometheus registry for /metrics.
type Metrics struct {
	startTime     time.Time
	requests      atomic.Int64
	serverErrors  atomic.Int64
	clientErrors  atomic.Int64
	registrations atomic.Int64
	logins        atomic.Int64
	loginFailures atomic.Int64

	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	rateLimitDenied prometheus.Counter
}

// MetricsSnapshot is a point-in-time view of server metrics.
type MetricsSnapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"requests"`
	ServerErrors  int64   `json:"server_errors"`
	ClientErrors  int64   `json:"client_errors"`
	Registrations int64   `json:"registrations"`
	Logins        int64   `json:"logins"`
	LoginFailures int64   `json:"login_failures"`
}

// NewMetrics creates a new Metrics instance with the current time as start.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		startTime: time.Now(),
		registry:  reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smartsearch_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartsearch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		authAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smartsearch_auth_attempts_total",
			Help: "Register and login attempts by outcome",
		}, []string{"kind", "result"}),
		rateLimitDenied: f.NewCounter(prometheus.CounterOpts{
			Name: "smartsearch_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter",
		}),
	}
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(method string, status int, dur time.Duration) {
	m.requests.Add(1)
	switch {
	case status >= 500:
		m.serverErrors.Add(1)
	case status >= 400:
		m.clientErrors.Add(1)
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(dur.Seconds())
}

// RecordRegister counts a registration attempt.
func (m *Metrics) RecordRegister(ok bool) {
	if ok {
		m.registrations.Add(1)
	}
	m.authAttempts.WithLabelValues("register", result(ok)).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(ok bool) {
	if ok {
		m.logins.Add(1)
	} else {
		m.loginFailures.Add(1)
	}
	m.authAttempts.WithLabelValues("login", result(ok)).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.rateLimitDenied.Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		Requests:      m.requests.Load(),
		ServerErrors:  m.serverErrors.Load(),
		ClientErrors:  m.clientErrors.Load(),
		Registrations: m.registrations.Load(),
		Logins:        m.logins.Load(),
		LoginFailures: m.loginFailures.Load(),
	}
}
