package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// Command metrics
	CommandsTotal          *prometheus.CounterVec
	CommandDurationSeconds *prometheus.HistogramVec

	// Repository metrics
	RepositoryOpsTotal        *prometheus.CounterVec
	RepositoryDurationSeconds *prometheus.HistogramVec

	// Reminder metrics
	RemindersTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterWaitDuration *prometheus.HistogramVec
	RateLimiterDropped      *prometheus.CounterVec
	RateLimiterActiveUsers  prometheus.Gauge

	// Reply delivery metrics
	ReplyFailuresTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Webhook metrics
		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equip_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"event_type"}, // event_type: message, other
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_webhook_requests_total",
				Help: "Total number of webhook requests by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error
		),

		// Command metrics
		CommandsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_commands_total",
				Help: "Total number of parsed commands by kind and status",
			},
			[]string{"kind", "status"}, // status: success, invalid, unauthorized, error
		),

		CommandDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equip_command_duration_seconds",
				Help:    "Command handling duration in seconds by kind",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"kind"},
		),

		// Repository metrics
		RepositoryOpsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_repository_ops_total",
				Help: "Total number of device repository operations by backend, op and status",
			},
			[]string{"backend", "op", "status"}, // op: find, upsert, update, delete, list
		),

		RepositoryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equip_repository_duration_seconds",
				Help:    "Device repository operation duration in seconds by backend and op",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"backend", "op"},
		),

		// Reminder metrics
		RemindersTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_reminders_total",
				Help: "Total number of maintenance reminders emitted by kind",
			},
			[]string{"kind"}, // kind: major_service, diesel_replace
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: timeout, rate_limit, invalid_signature, etc.
		),

		// Rate limiter metrics
		RateLimiterWaitDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equip_rate_limiter_wait_duration_seconds",
				Help:    "Time spent waiting for rate limiter token by limiter type",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"limiter_type"}, // limiter_type: user, global
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"},
		),

		RateLimiterActiveUsers: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "equip_rate_limiter_active_users",
				Help: "Current number of per-user rate limiter buckets",
			},
		),

		// Reply delivery metrics
		ReplyFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "equip_reply_failures_total",
				Help: "Total number of failed reply deliveries by reason",
			},
			[]string{"reason"}, // reason: expired_token, network, api
		),
	}

	return m
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordCommand records a handled command with status
func (m *Metrics) RecordCommand(kind, status string, duration float64) {
	m.CommandsTotal.WithLabelValues(kind, status).Inc()
	m.CommandDurationSeconds.WithLabelValues(kind).Observe(duration)
}

// RecordRepositoryOp records a device repository operation
func (m *Metrics) RecordRepositoryOp(backend, op, status string, duration float64) {
	m.RepositoryOpsTotal.WithLabelValues(backend, op, status).Inc()
	m.RepositoryDurationSeconds.WithLabelValues(backend, op).Observe(duration)
}

// RecordReminder records an emitted maintenance reminder
func (m *Metrics) RecordReminder(kind string) {
	m.RemindersTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}

// RecordRateLimiterWait records time spent waiting for rate limiter
func (m *Metrics) RecordRateLimiterWait(limiterType string, duration float64) {
	m.RateLimiterWaitDuration.WithLabelValues(limiterType).Observe(duration)
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRateLimiterUsers records the active per-user bucket count
func (m *Metrics) SetRateLimiterUsers(count int) {
	m.RateLimiterActiveUsers.Set(float64(count))
}

// RecordReplyFailure records a failed reply delivery
func (m *Metrics) RecordReplyFailure(reason string) {
	m.ReplyFailuresTotal.WithLabelValues(reason).Inc()
}
