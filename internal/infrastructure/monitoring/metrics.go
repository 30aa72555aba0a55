package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_engine_payments_total",
			Help: "Total number of payment recording attempts by outcome.",
		},
		[]string{"status"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_engine_import_rows_total",
			Help: "Total number of bulk-import rows processed by outcome.",
		},
		[]string{"status"},
	)

	assignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_engine_assignments_total",
			Help: "Total number of customer assignment operations by outcome.",
		},
		[]string{"status"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collection_engine_db_query_duration_seconds",
			Help:    "Histogram of database query latencies.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query_name", "status"},
	)
)

func RecordPayment(status string) {
	paymentsTotal.WithLabelValues(status).Inc()
}

func RecordImportRow(status string) {
	importRowsTotal.WithLabelValues(status).Inc()
}

func RecordAssignment(status string) {
	assignmentsTotal.WithLabelValues(status).Inc()
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}
