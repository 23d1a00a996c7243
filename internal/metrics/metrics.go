package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcontrol_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymcontrol_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AccessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcontrol_access_checks_total",
			Help: "Total number of access decisions",
		},
		[]string{"result", "reason"},
	)

	MembershipExpirationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcontrol_membership_expirations_total",
			Help: "Total number of memberships flipped to inactive",
		},
		[]string{"trigger"},
	)

	SnapshotsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcontrol_snapshots_generated_total",
			Help: "Total number of monthly snapshots written",
		},
	)

	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcontrol_batch_runs_total",
			Help: "Total number of snapshot batch runs",
		},
		[]string{"kind"},
	)

	BatchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcontrol_batch_errors_total",
			Help: "Total number of per-unit failures inside batch runs",
		},
		[]string{"kind"},
	)

	RemindersQueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcontrol_reminders_queued_total",
			Help: "Total number of expiry reminder emails queued",
		},
	)

	ReminderQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymcontrol_reminder_queue_length",
			Help: "Current length of the reminder email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAccessCheck(result, reason string) {
	AccessChecksTotal.WithLabelValues(result, reason).Inc()
}

func RecordMembershipExpiration(trigger string) {
	MembershipExpirationsTotal.WithLabelValues(trigger).Inc()
}

func RecordSnapshot() {
	SnapshotsGeneratedTotal.Inc()
}

func RecordBatchRun(kind string) {
	BatchRunsTotal.WithLabelValues(kind).Inc()
}

func RecordBatchError(kind string) {
	BatchErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordReminderQueued() {
	RemindersQueuedTotal.Inc()
}
