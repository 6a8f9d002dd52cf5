package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "platform_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	billsListTotal   *prometheus.CounterVec
	billsListLatency *prometheus.HistogramVec

	billsFormatErrors *prometheus.CounterVec

	billsExportTotal   *prometheus.CounterVec
	billsExportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		billsListTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_list_total",
				Help: "Total bill list operations by result",
			},
			[]string{"result"},
		)
		billsListLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "bills_list_latency_seconds",
				Help:    "Bill list latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		billsFormatErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_format_errors_total",
				Help: "Total bill fields that could not be formatted by field and kind",
			},
			[]string{"field", "kind"},
		)

		billsExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_export_total",
				Help: "Total bill export operations by format and result",
			},
			[]string{"format", "result"},
		)
		billsExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "bills_export_latency_seconds",
				Help:    "Bill export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			billsListTotal,
			billsListLatency,
			billsFormatErrors,
			billsExportTotal,
			billsExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveBillsList records list latency and result.
func ObserveBillsList(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if billsListTotal != nil {
		billsListTotal.WithLabelValues(result).Inc()
	}
	if billsListLatency != nil {
		billsListLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncFormatError increments the format failure counter.
func IncFormatError(field, kind string) {
	if field == "" {
		field = "unknown"
	}
	if kind == "" {
		kind = "unknown"
	}
	if billsFormatErrors != nil {
		billsFormatErrors.WithLabelValues(field, kind).Inc()
	}
}

// ObserveBillsExport records export latency and result.
func ObserveBillsExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if billsExportTotal != nil {
		billsExportTotal.WithLabelValues(format, result).Inc()
	}
	if billsExportLatency != nil {
		billsExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	FieldDate   = "date"
	FieldStatus = "status"
)
