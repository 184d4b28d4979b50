package metrics

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "autograde"
)

var (
	Debug bool = true

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	casesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "cases_total",
		Help:      "Count of graded test cases",
	}, []string{
		"run_id",
		"case",
		"status",
	})

	pointsAwarded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "points_awarded",
		Help:      "Points awarded in a grading run",
	}, []string{
		"run_id",
	})

	pointsAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "points_available",
		Help:      "Points available in a grading run",
	}, []string{
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Duration of a grading run",
	}, []string{
		"run_id",
	})
)

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

func RecordCase(runID, caseName, status string, awarded int) {
	if Debug {
		log.Debug("metric inc",
			"m", "cases_total",
			"run_id", runID,
			"case", caseName,
			"status", status,
			"awarded", awarded)
	}
	casesTotal.WithLabelValues(runID, caseName, status).Inc()
}

func RecordSuite(runID string, awarded, available int, duration time.Duration) {
	pointsAwarded.WithLabelValues(runID).Set(float64(awarded))
	pointsAvailable.WithLabelValues(runID).Set(float64(available))
	suiteDuration.WithLabelValues(runID).Set(duration.Seconds())
}
