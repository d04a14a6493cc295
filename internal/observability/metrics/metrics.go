package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ticketshop_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	reconciliationRuns    *prometheus.CounterVec
	reconciliationLatency *prometheus.HistogramVec
	reconciliationLines   *prometheus.CounterVec

	reportExports *prometheus.CounterVec

	ordersCreated   prometheus.Counter
	ordersCancelled prometheus.Counter

	remindersSent *prometheus.CounterVec
)

// Init registers the shop metrics.
func Init() {
	registerOnce.Do(func() {
		reconciliationRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconciliation_runs_total",
				Help: "Total bank statement reconciliation runs by result",
			},
			[]string{"result"},
		)
		reconciliationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "reconciliation_run_seconds",
				Help:    "Reconciliation run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reconciliationLines = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconciliation_outcomes_total",
				Help: "Total report lines by outcome kind",
			},
			[]string{"kind"},
		)

		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total payment report downloads by format",
			},
			[]string{"format"},
		)

		ordersCreated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "orders_created_total",
				Help: "Total orders created",
			},
		)
		ordersCancelled = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "orders_cancelled_total",
				Help: "Total orders cancelled",
			},
		)

		remindersSent = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_reminders_total",
				Help: "Total payment reminders by stage",
			},
			[]string{"stage"},
		)

		prometheus.MustRegister(
			reconciliationRuns,
			reconciliationLatency,
			reconciliationLines,
			reportExports,
			ordersCreated,
			ordersCancelled,
			remindersSent,
		)
	})
}

// ObserveReconciliationRun records one run with its duration.
func ObserveReconciliationRun(result string, duration time.Duration) {
	if reconciliationRuns == nil {
		return
	}
	reconciliationRuns.WithLabelValues(result).Inc()
	reconciliationLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// IncReconciliationOutcome counts one report line of the given kind.
func IncReconciliationOutcome(kind string) {
	if reconciliationLines == nil {
		return
	}
	reconciliationLines.WithLabelValues(kind).Inc()
}

// IncReportExport counts one report download.
func IncReportExport(format string) {
	if reportExports == nil {
		return
	}
	reportExports.WithLabelValues(format).Inc()
}

// IncOrderCreated counts one created order.
func IncOrderCreated() {
	if ordersCreated == nil {
		return
	}
	ordersCreated.Inc()
}

// IncOrderCancelled counts one cancelled order.
func IncOrderCancelled() {
	if ordersCancelled == nil {
		return
	}
	ordersCancelled.Inc()
}

// IncReminderSent counts one payment reminder.
func IncReminderSent(stage string) {
	if remindersSent == nil {
		return
	}
	remindersSent.WithLabelValues(stage).Inc()
}
