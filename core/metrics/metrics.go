package metrics

import "time"

// RecommendationRecord summarises one engine run.
type RecommendationRecord struct {
	RequestID       string
	StudentID       string
	Selected        []string
	Candidates      int
	TotalCredits    int
	RequiredCredits int
	Shortfall       int
	ScoreMean       float64
	ScoreStdDev     float64
	Duration        time.Duration
	Time            time.Time
}

// Partial reports whether the run fell short of the credit target.
func (r RecommendationRecord) Partial() bool { return r.Shortfall > 0 }

// Outcome is a coarse label for dashboards: "complete", "partial" or "empty".
func (r RecommendationRecord) Outcome() string {
	switch {
	case len(r.Selected) == 0 && r.RequiredCredits > 0:
		return "empty"
	case r.Partial():
		return "partial"
	default:
		return "complete"
	}
}

// MetricsSink records recommendation results for observability purposes.
type MetricsSink interface {
	RecordRecommendation(rec RecommendationRecord) error
}

// CandidateRecord is the fate of one scored course within a run.
type CandidateRecord struct {
	RequestID string
	CourseID  string
	Score     float64
	Outcome   string
	Reason    string
	Time      time.Time
}

// CandidateRecorder is implemented by sinks able to record per-course outcomes.
type CandidateRecorder interface {
	RecordCandidates(recs []CandidateRecord) error
}

// ExtractionRecord captures one preference extraction attempt.
type ExtractionRecord struct {
	Extractor string
	Result    string // "preferences", "questions" or "failed"
	Questions int
	Duration  time.Duration
	Time      time.Time
}

// ExtractionRecorder records extraction attempts.
type ExtractionRecorder interface {
	RecordExtraction(rec ExtractionRecord) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecommendation(RecommendationRecord) error { return nil }
func (NopSink) RecordCandidates([]CandidateRecord) error        { return nil }
func (NopSink) RecordExtraction(ExtractionRecord) error         { return nil }
