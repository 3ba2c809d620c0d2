package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// creditBuckets covers typical term loads, one bucket per three credits.
var creditBuckets = prometheus.LinearBuckets(0, 3, 9)

// PromSink records recommendation outcomes in Prometheus metrics.
type PromSink struct {
	recommendations *prometheus.CounterVec
	credits         prometheus.Histogram
	shortfall       prometheus.Histogram
	selections      *prometheus.CounterVec
	candidates      *prometheus.CounterVec
	extractions     *prometheus.CounterVec
}

// NewPromSink registers the sink collectors on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the collectors on reg, reusing any that
// are already registered. A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendations served, by outcome",
		}, []string{"outcome"}),
		credits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recommendation_credits",
			Help:    "Credits in recommended schedules",
			Buckets: creditBuckets,
		}),
		shortfall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recommendation_shortfall_credits",
			Help:    "Credits missing from the requested target",
			Buckets: creditBuckets,
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "course_selections_total",
			Help: "Times a course was placed in a recommendation",
		}, []string{"course_id"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_candidates_total",
			Help: "Scored candidates, by selection outcome",
		}, []string{"outcome"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "preference_extractions_total",
			Help: "Preference extraction attempts, by extractor and result",
		}, []string{"extractor", "result"}),
	}
	var err error
	if s.recommendations, err = register(reg, s.recommendations); err != nil {
		return nil, err
	}
	if s.credits, err = register(reg, s.credits); err != nil {
		return nil, err
	}
	if s.shortfall, err = register(reg, s.shortfall); err != nil {
		return nil, err
	}
	if s.selections, err = register(reg, s.selections); err != nil {
		return nil, err
	}
	if s.candidates, err = register(reg, s.candidates); err != nil {
		return nil, err
	}
	if s.extractions, err = register(reg, s.extractions); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the collector already registered under the same
// descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRecommendation updates the outcome counter and credit histograms.
func (s *PromSink) RecordRecommendation(rec coremetrics.RecommendationRecord) error {
	s.recommendations.WithLabelValues(rec.Outcome()).Inc()
	s.credits.Observe(float64(rec.TotalCredits))
	s.shortfall.Observe(float64(rec.Shortfall))
	for _, id := range rec.Selected {
		s.selections.WithLabelValues(id).Inc()
	}
	return nil
}

// RecordCandidates counts candidates per outcome.
func (s *PromSink) RecordCandidates(recs []coremetrics.CandidateRecord) error {
	for _, r := range recs {
		s.candidates.WithLabelValues(r.Outcome).Inc()
	}
	return nil
}

// RecordExtraction counts extraction attempts.
func (s *PromSink) RecordExtraction(rec coremetrics.ExtractionRecord) error {
	s.extractions.WithLabelValues(rec.Extractor, rec.Result).Inc()
	return nil
}
