package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "community_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	useCaseTotal   *prometheus.CounterVec
	useCaseLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	archiveRuns *prometheus.CounterVec
)

// Init registers settlement metrics and DB-backed gauges.
func Init(db *sql.DB, logger *zap.Logger) {
	registerOnce.Do(func() {
		useCaseTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "usecase_total",
				Help: "Total settlement use case invocations by use case and outcome",
			},
			[]string{"usecase", "outcome"},
		)
		useCaseLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "usecase_latency_seconds",
				Help:    "Settlement use case latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"usecase", "outcome"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		archiveRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "roster_archive_total",
				Help: "Total roster archive runs by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			useCaseTotal,
			useCaseLatency,
			exportTotal,
			exportLatency,
			archiveRuns,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveUseCase records a use case outcome and duration.
func ObserveUseCase(useCase, outcome string, duration time.Duration) {
	if useCase == "" {
		useCase = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	if useCaseTotal != nil {
		useCaseTotal.WithLabelValues(useCase, outcome).Inc()
	}
	if useCaseLatency != nil {
		useCaseLatency.WithLabelValues(useCase, outcome).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncArchiveRun increments the roster archive counter.
func IncArchiveRun(result string) {
	if result == "" {
		result = resultSuccess
	}
	if archiveRuns != nil {
		archiveRuns.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
