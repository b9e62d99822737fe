package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scheduler ticks by result: ok, store_error, skipped_overlap, panic
	ReminderTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carecircle_reminder_ticks_total",
			Help: "Number of reminder scheduler ticks by result",
		},
		[]string{"result"},
	)

	ReminderTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carecircle_reminder_tick_duration_seconds",
			Help:    "Duration of one scan and notify cycle",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		},
	)

	RemindersDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carecircle_reminders_due",
			Help: "Reminders found due by the last completed tick",
		},
	)

	// Dispatches by status: sent, failed, claim_held, already_sent, skipped_invalid
	ReminderDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carecircle_reminder_dispatches_total",
			Help: "Medication reminder dispatch attempts by status",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

func RecordTick(result string, duration time.Duration) {
	ReminderTicks.WithLabelValues(result).Inc()
	if duration > 0 {
		ReminderTickDuration.Observe(duration.Seconds())
	}
}

func RecordDispatch(status string) {
	ReminderDispatches.WithLabelValues(status).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
