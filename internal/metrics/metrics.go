package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for AnalysesTotal.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Consistency levels.
const (
	LevelAlternatives = "alternatives"
	LevelCriteria     = "criteria"
)

type Metrics struct {
	AnalysesTotal          *prometheus.CounterVec
	AnalysisDuration       *prometheus.HistogramVec
	ConsistencyRatio       *prometheus.HistogramVec
	InconsistentJudgments  *prometheus.CounterVec
	AlternativesPerRequest prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbiter",
			Name:      "analyses_total",
			Help:      "Analyses run, by method and outcome.",
		}, []string{"method", "outcome"}),
		AnalysisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arbiter",
			Name:      "analysis_duration_seconds",
			Help:      "Engine time per analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method"}),
		ConsistencyRatio: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arbiter",
			Name:      "consistency_ratio",
			Help:      "AHP consistency ratios of derived weight vectors.",
			Buckets:   []float64{0, 0.02, 0.05, 0.08, 0.1, 0.15, 0.25, 0.5},
		}, []string{"level"}),
		InconsistentJudgments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbiter",
			Name:      "inconsistent_judgments_total",
			Help:      "Pairwise matrices whose consistency ratio exceeded the threshold.",
		}, []string{"level"}),
		AlternativesPerRequest: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbiter",
			Name:      "alternatives_per_analysis",
			Help:      "Number of alternatives ranked per analysis.",
			Buckets:   prometheus.LinearBuckets(2, 4, 8),
		}),
	}
}

func (m *Metrics) ObserveAnalysis(method, outcome string, d time.Duration, alternatives int) {
	m.AnalysesTotal.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeOK {
		m.AnalysisDuration.WithLabelValues(method).Observe(d.Seconds())
		m.AlternativesPerRequest.Observe(float64(alternatives))
	}
}

func (m *Metrics) ObserveConsistency(level string, cr, threshold float64) {
	m.ConsistencyRatio.WithLabelValues(level).Observe(cr)
	if cr > threshold {
		m.InconsistentJudgments.WithLabelValues(level).Inc()
	}
}
