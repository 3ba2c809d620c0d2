package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
)

func TestPromSink_RecordRecommendation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	recs := []coremetrics.RecommendationRecord{
		{Selected: []string{"CS101", "MATH201"}, TotalCredits: 7, RequiredCredits: 6},
		{Selected: []string{"CS101"}, TotalCredits: 3, RequiredCredits: 12, Shortfall: 9},
		{RequiredCredits: 3, Shortfall: 3},
	}
	for _, r := range recs {
		if err := sink.RecordRecommendation(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	expected := `
# HELP recommendations_total Recommendations served, by outcome
# TYPE recommendations_total counter
recommendations_total{outcome="complete"} 1
recommendations_total{outcome="empty"} 1
recommendations_total{outcome="partial"} 1
`
	if err := testutil.CollectAndCompare(sink.recommendations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.selections.WithLabelValues("CS101")); v != 2 {
		t.Errorf("CS101 selections %v", v)
	}
	if c := testutil.CollectAndCount(sink.credits); c != 1 {
		t.Errorf("credit histogram not collected")
	}
}

func TestPromSink_Candidates(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordCandidates([]coremetrics.CandidateRecord{
		{CourseID: "A", Outcome: "selected"},
		{CourseID: "B", Outcome: "skipped_conflict"},
		{CourseID: "C", Outcome: "skipped_conflict"},
	})
	_ = sink.RecordExtraction(coremetrics.ExtractionRecord{Extractor: "json", Result: "preferences"})
	if v := testutil.ToFloat64(sink.candidates.WithLabelValues("skipped_conflict")); v != 2 {
		t.Errorf("conflict count %v", v)
	}
	if v := testutil.ToFloat64(sink.extractions.WithLabelValues("json", "preferences")); v != 1 {
		t.Errorf("extraction count %v", v)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = first.RecordRecommendation(coremetrics.RecommendationRecord{})
	_ = second.RecordRecommendation(coremetrics.RecommendationRecord{})
	if v := testutil.ToFloat64(second.recommendations.WithLabelValues("complete")); v != 2 {
		t.Fatalf("collectors not shared, got %v", v)
	}
}
