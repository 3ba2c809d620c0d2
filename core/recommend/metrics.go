package recommend

import "github.com/prometheus/client_golang/prometheus"

var (
	recommendRuns     *prometheus.CounterVec
	recommendDuration prometheus.Histogram
	candidatesSkipped *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, *prometheus.CounterVec) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_runs_total",
			Help: "Engine runs, by outcome",
		},
		[]string{"outcome"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time spent scoring and selecting courses",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_candidates_skipped_total",
			Help: "Candidates rejected during selection, by reason",
		},
		[]string{"reason"},
	)
	return runs, dur, skipped
}

func init() {
	recommendRuns, recommendDuration, candidatesSkipped = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers engine metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(recommendRuns, recommendDuration, candidatesSkipped)
}

// ResetMetrics reinitializes the collectors for tests and registers them on
// reg if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	recommendRuns, recommendDuration, candidatesSkipped = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
