package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quizbank"

// Metrics groups the collectors shared by the extractor and the API.
type Metrics struct {
	Documents      *prometheus.CounterVec
	Questions      *prometheus.CounterVec
	CountMismatch  *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	BankSize       prometheus.Gauge
	GradeResponses *prometheus.CounterVec
}

// New builds the collectors and registers them with reg (nil skips registration).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "documents_total",
			Help:      "Documents processed, by outcome and strategy.",
		}, []string{"status", "strategy"}),
		Questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "questions_total",
			Help:      "Question records extracted, by type.",
		}, []string{"type"}),
		CountMismatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "count_mismatch_total",
			Help:      "Modules whose record count differed from the expected count.",
		}, []string{"module"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full extraction run.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		BankSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bank_questions",
			Help:      "Question records in the most recently loaded bank.",
		}),
		GradeResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "grade_responses_total",
			Help:      "Graded responses, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Documents, m.Questions, m.CountMismatch, m.RunDuration, m.BankSize, m.GradeResponses)
	}
	return m
}
