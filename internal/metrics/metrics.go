package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payops"

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	TransitionsTotal     *prometheus.CounterVec
	ClaimsTotal          *prometheus.CounterVec
	LedgerCallsTotal     *prometheus.CounterVec
	LedgerCallDuration   *prometheus.HistogramVec
	WebhooksTotal        *prometheus.CounterVec
	FailedCredits        *prometheus.GaugeVec
	BackgroundTasksTotal *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// System Metrics
	ServiceUptime prometheus.Gauge
	Goroutines    prometheus.Gauge

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status_code"}),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		}),

		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Status transition attempts by entity, target status and result",
		}, []string{"entity", "to", "result"}),
		ClaimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Claim attempts by entity and result",
		}, []string{"entity", "result"}),
		LedgerCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Ledger create-transaction calls by type and result",
		}, []string{"type", "result"}),
		LedgerCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "call_duration_seconds",
			Help:      "Ledger call latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"type"}),
		WebhooksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "callbacks_total",
			Help:      "Gateway callbacks by gateway and outcome",
		}, []string{"gateway", "outcome"}),
		FailedCredits: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "failed_credits",
			Help:      "Entities whose ledger credit failed and awaits reconciliation",
		}, []string{"entity"}),
		BackgroundTasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_tasks_total",
			Help:      "Best-effort background tasks by name and result",
		}, []string{"task", "result"}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification outbox activity",
		}, []string{"stage", "result"}),

		DBConnectionsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Number of database connections currently in use",
		}),
		DBConnectionsIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Number of idle database connections",
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}),

		ServiceUptime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_uptime_seconds",
			Help:      "Service uptime in seconds",
		}),
		Goroutines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Number of goroutines currently running",
		}),

		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of validation errors",
		}, []string{"field", "tag"}),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(entity, to, result string) {
	m.TransitionsTotal.WithLabelValues(entity, to, result).Inc()
}

func (m *Metrics) RecordClaim(entity, result string) {
	m.ClaimsTotal.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) RecordLedgerCall(txType, result string, duration time.Duration) {
	m.LedgerCallsTotal.WithLabelValues(txType, result).Inc()
	m.LedgerCallDuration.WithLabelValues(txType).Observe(duration.Seconds())
}

func (m *Metrics) RecordWebhook(gateway, outcome string) {
	m.WebhooksTotal.WithLabelValues(gateway, outcome).Inc()
}

func (m *Metrics) SetFailedCredits(entity string, count int) {
	m.FailedCredits.WithLabelValues(entity).Set(float64(count))
}

func (m *Metrics) RecordBackgroundTask(name, result string) {
	m.BackgroundTasksTotal.WithLabelValues(name, result).Inc()
}

func (m *Metrics) RecordNotification(stage, result string) {
	m.NotificationsTotal.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}
